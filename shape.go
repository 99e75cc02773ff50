package proxy

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// delegateShape provides name-keyed access to a delegate's exported members.
// Struct delegates expose exported fields and the value's method set (bind a
// pointer to reach pointer-receiver methods); map[string]any delegates expose
// keys as fields and func values as methods. Reads go through the live
// delegate so shared, mutable delegates keep their own semantics.
type delegateShape struct {
	value   reflect.Value
	elem    reflect.Value
	dynamic map[string]any
}

func newShape(delegate any) (*delegateShape, error) {
	if delegate == nil {
		return nil, ErrNilDelegate
	}
	if dynamic, ok := delegate.(map[string]any); ok {
		if dynamic == nil {
			return nil, ErrNilDelegate
		}
		return &delegateShape{dynamic: dynamic}, nil
	}
	value := reflect.ValueOf(delegate)
	elem := value
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, ErrNilDelegate
		}
		elem = elem.Elem()
	}
	return &delegateShape{value: value, elem: elem}, nil
}

// member returns the kind and type the delegate exposes under name. Method
// types come back with the receiver stripped.
func (s *delegateShape) member(name string) (MemberKind, reflect.Type, bool) {
	if s.dynamic != nil {
		value, ok := s.dynamic[name]
		if !ok || value == nil {
			return "", nil, false
		}
		typ := reflect.TypeOf(value)
		if typ.Kind() == reflect.Func {
			return KindMethod, typ, true
		}
		return KindField, typ, true
	}
	if method, ok := s.value.Type().MethodByName(name); ok {
		return KindMethod, stripReceiver(method.Type), true
	}
	if s.elem.Kind() == reflect.Struct {
		if field, ok := s.elem.Type().FieldByName(name); ok && field.IsExported() {
			return KindField, field.Type, true
		}
	}
	return "", nil, false
}

// get reads a field value, or returns a method value bound to the delegate.
func (s *delegateShape) get(name string) (any, error) {
	if s.dynamic != nil {
		value, ok := s.dynamic[name]
		if !ok {
			return nil, &MemberNotFoundError{Name: name}
		}
		return value, nil
	}
	if method := s.value.MethodByName(name); method.IsValid() {
		return method.Interface(), nil
	}
	if s.elem.Kind() == reflect.Struct {
		if field, ok := s.elem.Type().FieldByName(name); ok && field.IsExported() {
			return s.elem.FieldByIndex(field.Index).Interface(), nil
		}
	}
	return nil, &MemberNotFoundError{Name: name}
}

// call invokes the delegate's method member with args.
func (s *delegateShape) call(name string, args []any) (any, error) {
	var fn reflect.Value
	if s.dynamic != nil {
		value, ok := s.dynamic[name]
		if !ok {
			return nil, &MemberNotFoundError{Name: name}
		}
		fn = reflect.ValueOf(value)
		if !fn.IsValid() || fn.Kind() != reflect.Func {
			return nil, fmt.Errorf("proxy: member %q is not callable", name)
		}
	} else {
		fn = s.value.MethodByName(name)
		if !fn.IsValid() {
			return nil, &MemberNotFoundError{Name: name}
		}
	}
	return callFunc(fn, args)
}

// stripReceiver converts a method type into the func type a caller sees.
func stripReceiver(method reflect.Type) reflect.Type {
	params := make([]reflect.Type, 0, method.NumIn()-1)
	for i := 1; i < method.NumIn(); i++ {
		params = append(params, method.In(i))
	}
	results := make([]reflect.Type, method.NumOut())
	for i := range results {
		results[i] = method.Out(i)
	}
	return reflect.FuncOf(params, results, method.IsVariadic())
}

// callFunc invokes fn with args converted to its parameter types. A trailing
// error result propagates unchanged; the remaining results collapse to nil,
// a single value, or []any.
func callFunc(fn reflect.Value, args []any) (any, error) {
	typ := fn.Type()
	fixed := typ.NumIn()
	if typ.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("proxy: call expects at least %d args, got %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("proxy: call expects %d args, got %d", fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = typ.In(i)
		} else {
			want = typ.In(typ.NumIn() - 1).Elem()
		}
		value, err := argValue(arg, want)
		if err != nil {
			return nil, fmt.Errorf("proxy: call arg %d: %w", i, err)
		}
		in[i] = value
	}

	return collapseResults(fn.Call(in))
}

func argValue(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", want)
	}
	value := reflect.ValueOf(arg)
	if !value.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", value.Type(), want)
	}
	return value, nil
}

func collapseResults(out []reflect.Value) (any, error) {
	var callErr error
	if len(out) > 0 && out[len(out)-1].Type() == errorType {
		last := out[len(out)-1]
		if !last.IsNil() {
			callErr = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	switch len(out) {
	case 0:
		return nil, callErr
	case 1:
		return out[0].Interface(), callErr
	default:
		values := make([]any, len(out))
		for i, value := range out {
			values[i] = value.Interface()
		}
		return values, callErr
	}
}
