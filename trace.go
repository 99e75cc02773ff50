package proxy

import "encoding/json"

// Trace captures how one member access resolved across the own-slot and
// delegate-forward steps.
type Trace struct {
	Member string `json:"member"`
	Type   string `json:"type,omitempty"`
	Steps  []Step `json:"steps"`
}

// Step records one resolution step and whether it produced the value.
type Step struct {
	Source string `json:"source"`
	Found  bool   `json:"found"`
	Value  any    `json:"value,omitempty"`
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously generated via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// ResolveWithTrace resolves a member read like Get and reports each step the
// engine consulted.
func (p *Instance) ResolveWithTrace(name string) (any, Trace, error) {
	trace := Trace{Member: name, Type: p.Type().Name()}
	if p == nil {
		trace.Steps = append(trace.Steps, Step{Source: SourceOverride}, Step{Source: SourceDelegate})
		return nil, trace, &MemberNotFoundError{Name: name}
	}

	if fn, ok := p.typ.fieldOverride(name); ok {
		value, err := fn(p)
		trace.Steps = append(trace.Steps, Step{Source: SourceOverride, Found: err == nil, Value: value})
		return value, trace, err
	}
	if fn, ok := p.typ.methodOverride(name); ok {
		bound := func(args ...any) (any, error) {
			return fn(p, args...)
		}
		trace.Steps = append(trace.Steps, Step{Source: SourceOverride, Found: true})
		return bound, trace, nil
	}
	trace.Steps = append(trace.Steps, Step{Source: SourceOverride})

	if p.forwardable(name) {
		value, err := p.shape.get(name)
		trace.Steps = append(trace.Steps, Step{Source: SourceDelegate, Found: err == nil, Value: value})
		return value, trace, err
	}
	trace.Steps = append(trace.Steps, Step{Source: SourceDelegate})
	return nil, trace, &MemberNotFoundError{Name: name}
}
