// Package state defines persistence-facing contracts for snapshotting and
// restoring proxy bindings.
//
// A Snapshot records only what the proxy owns: the delegate reference (an
// identifier sufficient to re-resolve it), the descriptor's member roster at
// capture time, and override-owned state. Resolution-engine internals are
// never persisted.
//
// Responsibilities:
//   - Store only loads/saves a single snapshot for a single Ref.
//   - Restorer re-resolves the delegate through a DelegateResolver, supplies
//     caller defaults for members the descriptor gained since capture, and
//     re-binds through proxy.Type.New so conformance is re-verified rather
//     than trusted from the snapshot.
//
// Data flow:
//
//	Store -> Restorer -> proxy.Type.New(delegate) -> *proxy.Instance
package state
