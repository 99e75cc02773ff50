package proxy

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprOverrideOption configures an expr-backed computed override.
type ExprOverrideOption func(*exprEngine)

// ExprWithProgramCache wires a ProgramCache into the expr engine.
func ExprWithProgramCache(cache ProgramCache) ExprOverrideOption {
	return func(e *exprEngine) {
		e.cache = cache
	}
}

// exprEngine evaluates override expressions using github.com/expr-lang/expr.
type exprEngine struct {
	cache ProgramCache
}

func newExprEngine(opts []ExprOverrideOption) *exprEngine {
	e := &exprEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// ExprOverride implements a method member with an expr-lang expression. The
// expression sees the delegate's readable fields, the call args, and
// forward(name, args...) bound to the instance.
func ExprOverride(expression string, opts ...ExprOverrideOption) MethodOverride {
	engine := newExprEngine(opts)
	return func(p *Instance, args ...any) (any, error) {
		return engine.evaluate(p, expression, args)
	}
}

// ExprFieldOverride implements a field member with an expr-lang expression.
func ExprFieldOverride(expression string, opts ...ExprOverrideOption) FieldOverride {
	engine := newExprEngine(opts)
	return func(p *Instance) (any, error) {
		return engine.evaluate(p, expression, nil)
	}
}

func (e *exprEngine) evaluate(p *Instance, expression string, args []any) (any, error) {
	if expression == "" {
		return nil, wrapEvaluationError("expr", expression, fmt.Errorf("expression must not be empty"))
	}
	env := overrideEnv(p, args)
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, err)
	}
	return result, nil
}

func (e *exprEngine) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}
