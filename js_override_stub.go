//go:build !js_eval

package proxy

import "fmt"

var errJSUnavailable = fmt.Errorf("proxy: js overrides require the js_eval build tag")

// JSOverride is unavailable without the js_eval build tag.
func JSOverride(expression string, opts ...JSOverrideOption) MethodOverride {
	_ = applyJSOverrideOptions(opts)
	return func(*Instance, ...any) (any, error) {
		return nil, wrapEvaluationError("js", expression, errJSUnavailable)
	}
}

// JSFieldOverride is unavailable without the js_eval build tag.
func JSFieldOverride(expression string, opts ...JSOverrideOption) FieldOverride {
	_ = applyJSOverrideOptions(opts)
	return func(*Instance) (any, error) {
		return nil, wrapEvaluationError("js", expression, errJSUnavailable)
	}
}

func jsOverrideAvailable() bool {
	return false
}
