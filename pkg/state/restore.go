package state

import (
	"context"
	"fmt"

	proxy "github.com/goliatone/go-proxy"
	"github.com/goliatone/go-proxy/layering"
	"github.com/goliatone/go-proxy/pkg/activity"
)

// Capture records the binding of p: the delegate reference, the descriptor's
// member roster, and the override-owned state supplied by the caller. The
// state map is cloned so the snapshot stays immutable.
func Capture(p *proxy.Instance, delegateID string, stateData map[string]any) (Snapshot, error) {
	if p == nil {
		return Snapshot{}, fmt.Errorf("state: instance is required")
	}
	if delegateID == "" {
		return Snapshot{}, fmt.Errorf("state: delegate id is required")
	}
	specs := p.Type().Descriptor().Members()
	members := make([]string, len(specs))
	for i, spec := range specs {
		members[i] = spec.Name
	}
	return Snapshot{
		DelegateID: delegateID,
		Members:    members,
		State:      layering.Clone(stateData),
	}, nil
}

// RestoreOption configures a restore.
type RestoreOption func(*restoreConfig)

type restoreConfig struct {
	defaults  map[string]any
	baseState map[string]any
	hooks     activity.Hooks
}

// WithDefaults supplies values for members the descriptor gained since the
// snapshot was taken. A plain value becomes a constant member; a
// proxy.FieldOverride or proxy.MethodOverride is installed as-is.
func WithDefaults(defaults map[string]any) RestoreOption {
	return func(cfg *restoreConfig) {
		cfg.defaults = defaults
	}
}

// WithBaseState layers default override-owned state under the snapshot's
// state; snapshot entries win.
func WithBaseState(base map[string]any) RestoreOption {
	return func(cfg *restoreConfig) {
		cfg.baseState = base
	}
}

// WithActivityHooks fans a restore event out to hooks on success.
func WithActivityHooks(hooks activity.Hooks) RestoreOption {
	return func(cfg *restoreConfig) {
		cfg.hooks = hooks
	}
}

// Restorer re-establishes proxy instances from persisted snapshots.
type Restorer struct {
	Store    Store
	Resolver DelegateResolver
}

// Restore loads the snapshot for ref, re-resolves its delegate, and re-binds
// it through typ.New so the conformance verifier runs against the live
// delegate. Members the descriptor gained since capture must be covered by
// WithDefaults; they are installed as overrides on a type derived from typ.
// The returned map is the restored override-owned state.
func (r Restorer) Restore(ctx context.Context, typ *proxy.Type, ref Ref, opts ...RestoreOption) (*proxy.Instance, map[string]any, Meta, error) {
	if r.Store == nil {
		return nil, nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if typ == nil {
		return nil, nil, Meta{}, fmt.Errorf("state: proxy type is required")
	}
	cfg := restoreConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	snapshot, meta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, nil, Meta{}, fmt.Errorf("state: load %q: %w", ref.Domain, err)
	}
	if !ok {
		return nil, nil, Meta{}, fmt.Errorf("%w: %s/%s", ErrSnapshotNotFound, ref.Domain, ref.ProxyID)
	}

	if r.Resolver == nil {
		return nil, nil, meta, fmt.Errorf("%w: no resolver configured", ErrDelegateUnresolved)
	}
	delegate, err := r.Resolver.ResolveDelegate(ctx, snapshot.DelegateID)
	if err != nil {
		return nil, nil, meta, fmt.Errorf("%w: %q: %v", ErrDelegateUnresolved, snapshot.DelegateID, err)
	}

	bound, err := r.bindType(typ, snapshot, cfg.defaults)
	if err != nil {
		return nil, nil, meta, err
	}

	instance, err := bound.New(delegate)
	if err != nil {
		return nil, nil, meta, err
	}

	restored := layering.MergeLayers(snapshot.State, cfg.baseState)

	if cfg.hooks.Enabled() {
		// Hook failures surface to the caller; the instance is still valid.
		err = cfg.hooks.Notify(ctx, activity.Event{
			Verb:       "restore",
			ProxyType:  bound.Name(),
			Descriptor: bound.Descriptor().Name(),
			DelegateID: snapshot.DelegateID,
			SnapshotID: meta.SnapshotID,
		})
	}
	return instance, restored, meta, err
}

// bindType derives a type carrying overrides for members gained since the
// snapshot. Defaults for members the snapshot already knew are ignored.
func (r Restorer) bindType(typ *proxy.Type, snapshot Snapshot, defaults map[string]any) (*proxy.Type, error) {
	known := make(map[string]struct{}, len(snapshot.Members))
	for _, name := range snapshot.Members {
		known[name] = struct{}{}
	}

	var missing []string
	var opts []proxy.Option
	for _, spec := range typ.Descriptor().Members() {
		if _, ok := known[spec.Name]; ok {
			continue
		}
		value, ok := defaults[spec.Name]
		if !ok {
			missing = append(missing, spec.Name)
			continue
		}
		opts = append(opts, defaultOption(spec, value))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("state: descriptor %q gained members with no default: %v", typ.Descriptor().Name(), missing)
	}
	if len(opts) == 0 {
		return typ, nil
	}
	return typ.Extend(opts...)
}

func defaultOption(spec proxy.MemberSpec, value any) proxy.Option {
	switch typed := value.(type) {
	case proxy.FieldOverride:
		return proxy.WithFieldOverride(spec.Name, typed)
	case proxy.MethodOverride:
		return proxy.WithOverride(spec.Name, typed)
	}
	if spec.Kind == proxy.KindMethod {
		return proxy.WithOverride(spec.Name, func(*proxy.Instance, ...any) (any, error) {
			return value, nil
		})
	}
	return proxy.WithFieldOverride(spec.Name, func(*proxy.Instance) (any, error) {
		return value, nil
	})
}

// Mutate loads one snapshot, applies fn, then saves the result. An ETag in
// meta guards against concurrent updates.
func (r Restorer) Mutate(ctx context.Context, ref Ref, meta Meta, fn func(*Snapshot) error) (Snapshot, Meta, error) {
	if r.Store == nil {
		return Snapshot{}, Meta{}, fmt.Errorf("state: store is required")
	}
	if fn == nil {
		return Snapshot{}, Meta{}, fmt.Errorf("state: mutator is required")
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return Snapshot{}, Meta{}, fmt.Errorf("state: load %q: %w", ref.Domain, err)
	}
	if !ok {
		snapshot = Snapshot{}
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return Snapshot{}, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(&snapshot); err != nil {
		return Snapshot{}, loadedMeta, err
	}
	if snapshot.DelegateID == "" {
		return Snapshot{}, loadedMeta, fmt.Errorf("state: snapshot delegate id is required")
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	saveMeta.ETag = ""
	savedMeta, err := r.Store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return Snapshot{}, loadedMeta, fmt.Errorf("state: save %q: %w", ref.Domain, err)
	}
	return cloneSnapshot(snapshot), savedMeta, nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
