//go:build js_eval

package proxy

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEngine struct {
	cache ProgramCache
}

// JSOverride implements a method member with a JavaScript expression run by
// goja. The expression sees the delegate's readable fields, args, and
// forward(name, ...args).
func JSOverride(expression string, opts ...JSOverrideOption) MethodOverride {
	cfg := applyJSOverrideOptions(opts)
	engine := &jsEngine{cache: cfg.cache}
	return func(p *Instance, args ...any) (any, error) {
		return engine.evaluate(p, expression, args)
	}
}

// JSFieldOverride implements a field member with a JavaScript expression.
func JSFieldOverride(expression string, opts ...JSOverrideOption) FieldOverride {
	cfg := applyJSOverrideOptions(opts)
	engine := &jsEngine{cache: cfg.cache}
	return func(p *Instance) (any, error) {
		return engine.evaluate(p, expression, nil)
	}
}

func (e *jsEngine) evaluate(p *Instance, expression string, args []any) (any, error) {
	if expression == "" {
		return nil, wrapEvaluationError("js", expression, fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	for key, value := range overrideEnv(p, args) {
		vm.Set(key, value)
	}
	var value goja.Value
	if program != nil {
		value, err = vm.RunProgram(program)
	} else {
		value, err = vm.RunString(wrapJSExpression(expression))
	}
	if err != nil {
		return nil, wrapEvaluationError("js", expression, err)
	}
	return value.Export(), nil
}

func (e *jsEngine) loadOrCompile(expression string) (*goja.Program, error) {
	if e.cache == nil {
		return nil, nil
	}
	if cached, ok := e.cache.Get(expression); ok {
		if program, ok := cached.(*goja.Program); ok {
			return program, nil
		}
	}
	program, err := goja.Compile("", wrapJSExpression(expression), false)
	if err != nil {
		return nil, wrapEvaluationError("js", expression, err)
	}
	e.cache.Set(expression, program)
	return program, nil
}

func wrapJSExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

func jsOverrideAvailable() bool {
	return true
}
