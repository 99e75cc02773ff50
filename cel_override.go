package proxy

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
)

// CELOverrideOption configures a CEL-backed computed override.
type CELOverrideOption func(*celEngine)

// CELWithProgramCache wires a ProgramCache into the CEL engine.
func CELWithProgramCache(cache ProgramCache) CELOverrideOption {
	return func(e *celEngine) {
		e.cache = cache
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

// celEngine evaluates override expressions using cel-go. CEL has no
// first-class function values, so forward is not part of its environment;
// use the expr or js engines for overrides that need explicit forwarding.
type celEngine struct {
	cache ProgramCache
}

func newCELEngine(opts []CELOverrideOption) *celEngine {
	e := &celEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// CELOverride implements a method member with a CEL expression evaluated
// against the delegate's readable fields and the call args.
func CELOverride(expression string, opts ...CELOverrideOption) MethodOverride {
	engine := newCELEngine(opts)
	return func(p *Instance, args ...any) (any, error) {
		return engine.evaluate(p, expression, args)
	}
}

// CELFieldOverride implements a field member with a CEL expression.
func CELFieldOverride(expression string, opts ...CELOverrideOption) FieldOverride {
	engine := newCELEngine(opts)
	return func(p *Instance) (any, error) {
		return engine.evaluate(p, expression, nil)
	}
}

func (e *celEngine) evaluate(p *Instance, expression string, args []any) (any, error) {
	if expression == "" {
		return nil, wrapEvaluationError("cel", expression, fmt.Errorf("expression must not be empty"))
	}
	activation := overrideEnv(p, args)
	delete(activation, "forward")
	delete(activation, "forward_get")
	program, err := e.loadOrCompile(expression, activation)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	out, _, err := program.program.Eval(activation)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, err)
	}
	return out.Value(), nil
}

func (e *celEngine) loadOrCompile(expression string, activation map[string]any) (*celProgram, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(activation)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{env: env, program: prg}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (e *celEngine) buildEnv(activation map[string]any) (*celgo.Env, error) {
	opts := make([]celgo.EnvOption, 0, len(activation))
	for key := range activation {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}
