package proxy

// Verify checks that delegate structurally satisfies descriptor. Names listed
// in overridden are satisfied by the proxy type itself and the delegate is
// not consulted for them. Every unmet member is collected, in declaration
// order, into a single ConformanceError.
func Verify(descriptor *Descriptor, delegate any, overridden ...string) error {
	if descriptor == nil {
		return nil
	}
	shape, err := newShape(delegate)
	if err != nil {
		return err
	}
	if len(overridden) == 0 {
		return verifyShape(descriptor, shape, nil)
	}
	names := make(map[string]struct{}, len(overridden))
	for _, name := range overridden {
		names[name] = struct{}{}
	}
	return verifyShape(descriptor, shape, func(name string) bool {
		_, ok := names[name]
		return ok
	})
}

func verifyShape(descriptor *Descriptor, shape *delegateShape, overridden func(string) bool) error {
	var missing []string
	for _, member := range descriptor.members {
		if overridden != nil && overridden(member.Name) {
			continue
		}
		kind, typ, ok := shape.member(member.Name)
		if !ok || kind != member.Kind {
			missing = append(missing, member.Name)
			continue
		}
		switch member.Kind {
		case KindField:
			if !member.Signature.satisfiedByField(typ) {
				missing = append(missing, member.Name)
			}
		case KindMethod:
			if !member.Signature.satisfiedByMethod(typ) {
				missing = append(missing, member.Name)
			}
		}
	}
	if len(missing) > 0 {
		return &ConformanceError{Descriptor: descriptor.name, Missing: missing}
	}
	return nil
}
