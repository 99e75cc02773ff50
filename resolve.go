package proxy

import (
	"fmt"
	"time"
)

// Get resolves a member read on p. Precedence is fixed: an override on the
// instance's type chain wins, otherwise a descriptor-declared member forwards
// to the delegate, otherwise the access fails with MemberNotFoundError.
// Descriptor declarations alone never resolve locally; they only gate
// forwarding. Method members resolve to a callable: the delegate's bound
// method value, or a func(args ...any) (any, error) wrapping the override.
//
// Resolution is deterministic and synchronous; errors raised by the delegate
// propagate unchanged.
func (p *Instance) Get(name string) (any, error) {
	if p == nil {
		return nil, fmt.Errorf("proxy: instance is required")
	}
	start := time.Now()
	value, source, err := p.resolveGet(name)
	p.typ.logger().LogResolution(ResolutionLogEvent{
		Member:   name,
		Source:   source,
		Type:     p.typ.Name(),
		Duration: time.Since(start),
		Err:      err,
	})
	return value, err
}

// Call resolves and invokes a method member on p with args, under the same
// precedence as Get. Delegate results collapse to nil, a single value, or
// []any; a trailing error result propagates unchanged.
func (p *Instance) Call(name string, args ...any) (any, error) {
	if p == nil {
		return nil, fmt.Errorf("proxy: instance is required")
	}
	start := time.Now()
	value, source, err := p.resolveCall(name, args)
	p.typ.logger().LogResolution(ResolutionLogEvent{
		Member:   name,
		Source:   source,
		Type:     p.typ.Name(),
		Duration: time.Since(start),
		Err:      err,
	})
	return value, err
}

func (p *Instance) resolveGet(name string) (any, string, error) {
	if fn, ok := p.typ.fieldOverride(name); ok {
		value, err := fn(p)
		return value, SourceOverride, err
	}
	if fn, ok := p.typ.methodOverride(name); ok {
		bound := func(args ...any) (any, error) {
			return fn(p, args...)
		}
		return bound, SourceOverride, nil
	}
	if p.forwardable(name) {
		value, err := p.shape.get(name)
		return value, SourceDelegate, err
	}
	return nil, "", &MemberNotFoundError{Name: name}
}

func (p *Instance) resolveCall(name string, args []any) (any, string, error) {
	if fn, ok := p.typ.methodOverride(name); ok {
		value, err := fn(p, args...)
		return value, SourceOverride, err
	}
	if _, ok := p.typ.fieldOverride(name); ok {
		return nil, SourceOverride, fmt.Errorf("proxy: member %q is not callable", name)
	}
	if p.forwardable(name) {
		value, err := p.shape.call(name, args)
		return value, SourceDelegate, err
	}
	return nil, "", &MemberNotFoundError{Name: name}
}

// forwardable reports whether name is declared in the descriptor and not
// satisfied by an own-slot implementation.
func (p *Instance) forwardable(name string) bool {
	if _, ok := p.typ.descriptor.Member(name); !ok {
		return false
	}
	return !p.typ.Overridden(name)
}
