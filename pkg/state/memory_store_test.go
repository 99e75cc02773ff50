package state_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-proxy/pkg/state"
)

func TestMemoryStoreSaveStampsMeta(t *testing.T) {
	store := state.NewMemoryStore()
	ref := state.Ref{Domain: "greeters", ProxyID: "p1"}

	meta, err := store.Save(context.Background(), ref, state.Snapshot{DelegateID: "d1"}, state.Meta{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if meta.SnapshotID == "" || meta.ETag == "" || meta.UpdatedAt.IsZero() {
		t.Fatalf("expected stamped meta, got %+v", meta)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := state.NewMemoryStore()
	ref := state.Ref{Domain: "greeters", ProxyID: "p1"}
	snapshot := state.Snapshot{
		DelegateID: "d1",
		Members:    []string{"AField", "AMethod"},
		State:      map[string]any{"greeting": "hello"},
	}

	saved, err := store.Save(context.Background(), ref, snapshot, state.Meta{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, meta, ok, err := store.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot to exist")
	}
	if loaded.DelegateID != "d1" || len(loaded.Members) != 2 || loaded.State["greeting"] != "hello" {
		t.Fatalf("unexpected snapshot: %+v", loaded)
	}
	if meta.ETag != saved.ETag {
		t.Fatalf("expected etag %q, got %q", saved.ETag, meta.ETag)
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := state.NewMemoryStore()

	_, _, ok, err := store.Load(context.Background(), state.Ref{Domain: "greeters", ProxyID: "missing"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected missing snapshot")
	}
}

func TestMemoryStoreRejectsIncompleteRef(t *testing.T) {
	store := state.NewMemoryStore()

	if _, err := store.Save(context.Background(), state.Ref{Domain: "greeters"}, state.Snapshot{DelegateID: "d1"}, state.Meta{}); err == nil {
		t.Fatalf("expected error for missing proxy id")
	}
	if _, _, _, err := store.Load(context.Background(), state.Ref{ProxyID: "p1"}); err == nil {
		t.Fatalf("expected error for missing domain")
	}
}

func TestMemoryStoreIsolatesSnapshots(t *testing.T) {
	store := state.NewMemoryStore()
	ref := state.Ref{Domain: "greeters", ProxyID: "p1"}
	snapshot := state.Snapshot{
		DelegateID: "d1",
		State:      map[string]any{"greeting": "hello"},
	}
	if _, err := store.Save(context.Background(), ref, snapshot, state.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	snapshot.State["greeting"] = "changed"

	loaded, _, _, err := store.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.State["greeting"] != "hello" {
		t.Fatalf("stored snapshot mutated through caller map: %v", loaded.State)
	}

	loaded.State["greeting"] = "changed again"
	reloaded, _, _, err := store.Load(context.Background(), ref)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if reloaded.State["greeting"] != "hello" {
		t.Fatalf("stored snapshot mutated through loaded copy: %v", reloaded.State)
	}
}
