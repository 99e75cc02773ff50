package proxy

import (
	"fmt"
	"reflect"
	"strings"
)

// MemberKind distinguishes field members from method members.
type MemberKind string

const (
	// KindField marks a member resolved by value read.
	KindField MemberKind = "field"
	// KindMethod marks a member resolved by invocation.
	KindMethod MemberKind = "method"
)

// Signature describes the shape a member must expose. Field members carry a
// value type; method members carry parameter and result types. Signatures are
// immutable once created.
type Signature struct {
	Field    reflect.Type
	Params   []reflect.Type
	Results  []reflect.Type
	Variadic bool
}

// FieldSignature builds a field signature for typ.
func FieldSignature(typ reflect.Type) Signature {
	return Signature{Field: typ}
}

// MethodSignature builds a method signature from explicit parameter and
// result types. The slices are copied so the signature stays immutable even
// if the caller mutates their references.
func MethodSignature(params, results []reflect.Type, variadic bool) Signature {
	return Signature{
		Params:   append([]reflect.Type(nil), params...),
		Results:  append([]reflect.Type(nil), results...),
		Variadic: variadic,
	}
}

// SignatureOf derives a method signature from the func type F.
func SignatureOf[F any]() (Signature, error) {
	typ := reflect.TypeOf((*F)(nil)).Elem()
	if typ.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("proxy: signature template %s is not a func type", typ)
	}
	params := make([]reflect.Type, typ.NumIn())
	for i := range params {
		params[i] = typ.In(i)
	}
	results := make([]reflect.Type, typ.NumOut())
	for i := range results {
		results[i] = typ.Out(i)
	}
	return Signature{Params: params, Results: results, Variadic: typ.IsVariadic()}, nil
}

// String renders the signature the way Go declares it.
func (s Signature) String() string {
	if s.Field != nil {
		return s.Field.String()
	}
	params := make([]string, len(s.Params))
	for i, param := range s.Params {
		if s.Variadic && i == len(s.Params)-1 {
			params[i] = "..." + param.Elem().String()
			continue
		}
		params[i] = param.String()
	}
	out := "func(" + strings.Join(params, ", ") + ")"
	switch len(s.Results) {
	case 0:
		return out
	case 1:
		return out + " " + s.Results[0].String()
	default:
		results := make([]string, len(s.Results))
		for i, result := range s.Results {
			results[i] = result.String()
		}
		return out + " (" + strings.Join(results, ", ") + ")"
	}
}

// Equal reports whether two signatures declare the identical shape. Identity
// is strict, with no assignability slack.
func (s Signature) Equal(other Signature) bool {
	if s.Field != nil || other.Field != nil {
		return s.Field == other.Field
	}
	if s.Variadic != other.Variadic {
		return false
	}
	if len(s.Params) != len(other.Params) || len(s.Results) != len(other.Results) {
		return false
	}
	for i, param := range s.Params {
		if param != other.Params[i] {
			return false
		}
	}
	for i, result := range s.Results {
		if result != other.Results[i] {
			return false
		}
	}
	return true
}

// satisfiedByField reports whether a delegate field of type typ can serve a
// read of this member. Covariant reads are allowed: the delegate's type must
// be assignable to the declared type.
func (s Signature) satisfiedByField(typ reflect.Type) bool {
	if s.Field == nil || typ == nil {
		return false
	}
	return typ.AssignableTo(s.Field)
}

// satisfiedByMethod reports whether fn, the delegate method's func type with
// the receiver stripped, is structurally compatible: same arity and variadic
// shape, declared params assignable to the delegate's, delegate results
// assignable to the declared ones.
func (s Signature) satisfiedByMethod(fn reflect.Type) bool {
	if s.Field != nil || fn == nil || fn.Kind() != reflect.Func {
		return false
	}
	if fn.IsVariadic() != s.Variadic {
		return false
	}
	if fn.NumIn() != len(s.Params) || fn.NumOut() != len(s.Results) {
		return false
	}
	for i, param := range s.Params {
		if !param.AssignableTo(fn.In(i)) {
			return false
		}
	}
	for i := range s.Results {
		if !fn.Out(i).AssignableTo(s.Results[i]) {
			return false
		}
	}
	return true
}
