package proxy

import (
	"context"

	"github.com/goliatone/go-proxy/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the proxy type. Hooks are
// cloned and nil entries dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *typeConfig) {
		cfg.hooks = normalized
	}
}

// ActivityHooks returns a cloned slice of the hooks configured on the type.
// The returned slice can be safely mutated by the caller.
func (t *Type) ActivityHooks() activity.Hooks {
	if t == nil {
		return nil
	}
	return cloneActivityHooks(t.cfg.hooks)
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// notifyBind fans a bind event out to the configured hooks. Hook failures
// never block construction; they surface through the resolution logger.
func (t *Type) notifyBind() {
	if !t.cfg.hooks.Enabled() {
		return
	}
	err := t.cfg.hooks.Notify(context.Background(), activity.Event{
		Verb:       "bind",
		ProxyType:  t.Name(),
		Descriptor: t.descriptor.Name(),
		Metadata: map[string]any{
			"overrides": t.overrides.Names(),
		},
	})
	if err != nil {
		t.logger().LogResolution(ResolutionLogEvent{
			Source: SourceBind,
			Type:   t.Name(),
			Err:    err,
		})
	}
}
