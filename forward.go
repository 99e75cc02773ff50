package proxy

// Forward invokes the delegate's method member directly, bypassing every
// override on the instance's type chain. It is the primitive an override body
// uses to reach the behaviour it replaced; ordinary dispatch keeps returning
// the override. Errors raised by the delegate propagate unchanged.
func Forward(p *Instance, name string, args ...any) (any, error) {
	if err := forwardTarget(p, name, KindMethod); err != nil {
		return nil, err
	}
	return p.shape.call(name, args)
}

// ForwardGet reads the delegate's field member directly, bypassing overrides.
func ForwardGet(p *Instance, name string) (any, error) {
	if err := forwardTarget(p, name, KindField); err != nil {
		return nil, err
	}
	return p.shape.get(name)
}

func forwardTarget(p *Instance, name string, kind MemberKind) error {
	if p == nil || p.shape == nil {
		return &InvalidForwardError{Name: name, Reason: "no delegate bound"}
	}
	member, ok := p.typ.descriptor.Member(name)
	if !ok {
		return &InvalidForwardError{Name: name, Reason: "member not declared by descriptor"}
	}
	if member.Kind != kind {
		return &InvalidForwardError{Name: name, Reason: "member kind is " + string(member.Kind)}
	}
	gotKind, _, ok := p.shape.member(name)
	if !ok || gotKind != kind {
		return &InvalidForwardError{Name: name, Reason: "delegate does not implement member"}
	}
	return nil
}
