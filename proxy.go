package proxy

import "fmt"

// Type is a proxy type: exactly one flattened capability descriptor plus the
// members the type implements itself. Compose descriptors with Union before
// handing them to Define. Types are immutable once defined and safe for
// unsynchronized concurrent use.
type Type struct {
	descriptor *Descriptor
	parent     *Type
	overrides  *OverrideSet
	cfg        typeConfig
}

// Define builds a proxy type from descriptor. Overrides supplied through
// options are sealed into the type. Verification against the override set
// runs immediately; members that will need a delegate-side fallback are
// reported as a warning through the configured logger, never as an error,
// since the delegate is not known yet.
func Define(descriptor *Descriptor, opts ...Option) (*Type, error) {
	if descriptor == nil {
		return nil, fmt.Errorf("proxy: descriptor is required")
	}
	cfg := applyOptions(opts)
	overrides, err := buildOverrideSet(cfg.entries)
	if err != nil {
		return nil, err
	}
	t := &Type{descriptor: descriptor, overrides: overrides, cfg: cfg}
	t.warnUnresolved()
	return t, nil
}

// Extend derives a new proxy type whose override set layers over t's. The
// derived type shares t's descriptor; own-slot resolution walks the derived
// set first, so a derived override transparently replaces the parent's member
// while every other member keeps its parent behaviour.
func (t *Type) Extend(opts ...Option) (*Type, error) {
	if t == nil {
		return nil, fmt.Errorf("proxy: type is required")
	}
	cfg := applyOptions(opts)
	if cfg.name == "" {
		cfg.name = t.cfg.name
	}
	if cfg.logger == nil {
		cfg.logger = t.cfg.logger
	}
	if cfg.hooks == nil {
		cfg.hooks = t.cfg.hooks
	}
	overrides, err := buildOverrideSet(cfg.entries)
	if err != nil {
		return nil, err
	}
	derived := &Type{descriptor: t.descriptor, parent: t, overrides: overrides, cfg: cfg}
	derived.warnUnresolved()
	return derived, nil
}

// Name returns the configured type name, defaulting to the descriptor name.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	if t.cfg.name != "" {
		return t.cfg.name
	}
	return t.descriptor.Name()
}

// Descriptor returns the capability descriptor the type was defined with.
func (t *Type) Descriptor() *Descriptor {
	if t == nil {
		return nil
	}
	return t.descriptor
}

// Overridden reports whether name is implemented on t or any ancestor type.
func (t *Type) Overridden(name string) bool {
	for current := t; current != nil; current = current.parent {
		if current.overrides.has(name) {
			return true
		}
	}
	return false
}

func (t *Type) methodOverride(name string) (MethodOverride, bool) {
	for current := t; current != nil; current = current.parent {
		if fn, ok := current.overrides.method(name); ok {
			return fn, true
		}
		// A field override on a nearer type shadows any method override
		// further up the chain.
		if _, ok := current.overrides.field(name); ok {
			return nil, false
		}
	}
	return nil, false
}

func (t *Type) fieldOverride(name string) (FieldOverride, bool) {
	for current := t; current != nil; current = current.parent {
		if fn, ok := current.overrides.field(name); ok {
			return fn, true
		}
		if _, ok := current.overrides.method(name); ok {
			return nil, false
		}
	}
	return nil, false
}

func (t *Type) logger() ResolutionLogger {
	if t != nil && t.cfg.logger != nil {
		return t.cfg.logger
	}
	return noopResolutionLogger{}
}

// warnUnresolved reports descriptor members with no own-slot implementation.
// They are legitimate (the delegate supplies them at bind time), so this is
// diagnostics only.
func (t *Type) warnUnresolved() {
	var missing []string
	for _, member := range t.descriptor.members {
		if !t.Overridden(member.Name) {
			missing = append(missing, member.Name)
		}
	}
	if len(missing) == 0 {
		return
	}
	t.logger().LogResolution(ResolutionLogEvent{
		Source: SourceDefine,
		Type:   t.Name(),
		Err:    &ConformanceError{Descriptor: t.descriptor.Name(), Missing: missing},
	})
}

// New binds delegate to a fresh instance of t. The conformance check is
// mandatory: on failure no instance is produced. The binding is immutable;
// rebinding means constructing a new instance. The proxy never assumes
// ownership of the delegate, which may be shared across instances.
func (t *Type) New(delegate any) (*Instance, error) {
	if t == nil {
		return nil, fmt.Errorf("proxy: type is required")
	}
	shape, err := newShape(delegate)
	if err != nil {
		return nil, err
	}
	if err := verifyShape(t.descriptor, shape, t.Overridden); err != nil {
		return nil, err
	}
	p := &Instance{typ: t, shape: shape, delegate: delegate}
	t.notifyBind()
	return p, nil
}

// Instance is a proxy instance bound to exactly one delegate.
type Instance struct {
	typ      *Type
	shape    *delegateShape
	delegate any
}

// Type returns the proxy type the instance was constructed from.
func (p *Instance) Type() *Type {
	if p == nil {
		return nil
	}
	return p.typ
}

// Delegate returns the bound delegate.
func (p *Instance) Delegate() any {
	if p == nil {
		return nil
	}
	return p.delegate
}
