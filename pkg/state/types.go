package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-proxy/internal/hydrate"
	"github.com/goliatone/go-proxy/layering"
)

// ErrETagMismatch indicates a concurrent update was detected during Mutate.
var ErrETagMismatch = errors.New("state: etag mismatch")

// ErrSnapshotNotFound indicates the store holds no snapshot for the ref.
var ErrSnapshotNotFound = errors.New("state: snapshot not found")

// ErrDelegateUnresolved indicates the delegate reference could not be
// re-resolved during restore.
var ErrDelegateUnresolved = errors.New("state: delegate unresolved")

// Ref identifies one persisted snapshot for one proxy domain.
type Ref struct {
	Domain  string
	ProxyID string
}

// Identifier provides the canonical storage key for the ref.
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	if r.ProxyID == "" {
		return "", fmt.Errorf("state: proxy id is required")
	}
	return fmt.Sprintf("%s/%s", r.Domain, r.ProxyID), nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Snapshot is the persisted form of one proxy binding: the delegate
// reference, the descriptor's member roster at capture time, and
// override-owned state. Nothing else about the proxy is stored.
type Snapshot struct {
	DelegateID string         `json:"delegate_id"`
	Members    []string       `json:"members"`
	State      map[string]any `json:"state,omitempty"`
}

// Store loads/saves one snapshot for a single proxy reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (Snapshot, Meta, bool, error)
	Save(ctx context.Context, ref Ref, snapshot Snapshot, meta Meta) (Meta, error)
}

// DelegateResolver turns a persisted delegate reference back into a live
// delegate before re-binding.
type DelegateResolver interface {
	ResolveDelegate(ctx context.Context, id string) (any, error)
}

// DelegateResolverFunc adapts a function to DelegateResolver.
type DelegateResolverFunc func(ctx context.Context, id string) (any, error)

// ResolveDelegate dispatches to the underlying function.
func (fn DelegateResolverFunc) ResolveDelegate(ctx context.Context, id string) (any, error) {
	if fn == nil {
		return nil, ErrDelegateUnresolved
	}
	return fn(ctx, id)
}

// DecodeState decodes override-owned state into a typed value.
func DecodeState[T any](ref Ref, payload map[string]any) (T, error) {
	decoder := hydrate.NewDecoder[T]()
	return decoder.Decode(hydrate.Context{Domain: ref.Domain, ProxyID: ref.ProxyID}, payload)
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

func cloneSnapshot(snapshot Snapshot) Snapshot {
	out := Snapshot{
		DelegateID: snapshot.DelegateID,
		State:      layering.Clone(snapshot.State),
	}
	if len(snapshot.Members) > 0 {
		out.Members = append([]string(nil), snapshot.Members...)
	}
	return out
}
