package proxy

import "github.com/goliatone/go-proxy/pkg/activity"

// Sources reported in traces and resolution log events.
const (
	// SourceOverride marks a member satisfied by the type's own-slot chain.
	SourceOverride = "override"
	// SourceDelegate marks a member forwarded to the bound delegate.
	SourceDelegate = "delegate"
	// SourceDefine marks definition-time conformance warnings.
	SourceDefine = "define"
	// SourceBind marks bind-time events.
	SourceBind = "bind"
)

// Option configures a proxy type at definition time.
type Option func(*typeConfig)

type typeConfig struct {
	name    string
	logger  ResolutionLogger
	hooks   activity.Hooks
	entries []overrideEntry
}

type overrideEntry struct {
	name   string
	method MethodOverride
	field  FieldOverride
}

func applyOptions(opts []Option) typeConfig {
	cfg := typeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithTypeName overrides the name reported in traces and log events. Types
// default to their descriptor's name.
func WithTypeName(name string) Option {
	return func(cfg *typeConfig) {
		cfg.name = name
	}
}

// WithOverride implements the method member name directly on the type being
// defined. Overrides take precedence over delegate forwarding for every
// instance of the type and of types derived from it.
func WithOverride(name string, fn MethodOverride) Option {
	return func(cfg *typeConfig) {
		cfg.entries = append(cfg.entries, overrideEntry{name: name, method: fn})
	}
}

// WithFieldOverride implements the field member name directly on the type
// being defined.
func WithFieldOverride(name string, fn FieldOverride) Option {
	return func(cfg *typeConfig) {
		cfg.entries = append(cfg.entries, overrideEntry{name: name, field: fn})
	}
}

func buildOverrideSet(entries []overrideEntry) (*OverrideSet, error) {
	set := newOverrideSet()
	for _, entry := range entries {
		if entry.method != nil {
			if err := set.setMethod(entry.name, entry.method); err != nil {
				return nil, err
			}
			continue
		}
		if err := set.setField(entry.name, entry.field); err != nil {
			return nil, err
		}
	}
	return set, nil
}
