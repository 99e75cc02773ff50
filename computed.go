package proxy

// overrideEnv builds the evaluation environment shared by the computed
// override engines: the delegate's readable descriptor fields keyed by name,
// the call arguments under "args", and forward/forward_get functions bound to
// the instance so expressions can reach the behaviour they replaced.
func overrideEnv(p *Instance, args []any) map[string]any {
	if args == nil {
		args = []any{}
	}
	env := map[string]any{"args": args}
	if p != nil && p.shape != nil {
		for _, spec := range p.typ.descriptor.members {
			if spec.Kind != KindField {
				continue
			}
			kind, _, ok := p.shape.member(spec.Name)
			if !ok || kind != KindField {
				continue
			}
			if value, err := p.shape.get(spec.Name); err == nil {
				env[spec.Name] = value
			}
		}
	}
	env["forward"] = func(name string, forwardArgs ...any) (any, error) {
		return Forward(p, name, forwardArgs...)
	}
	env["forward_get"] = func(name string) (any, error) {
		return ForwardGet(p, name)
	}
	return env
}
