package proxy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNilDelegate indicates a binding attempt without a delegate.
var ErrNilDelegate = errors.New("proxy: delegate must not be nil")

// DuplicateMemberError reports two member specs sharing a name within one
// descriptor.
type DuplicateMemberError struct {
	Descriptor string
	Name       string
}

func (e *DuplicateMemberError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("proxy: descriptor %q declares member %q twice", e.Descriptor, e.Name)
}

// ConflictingSignatureError reports a descriptor union where both operands
// declare the same member with incompatible signatures.
type ConflictingSignatureError struct {
	Name  string
	Left  string
	Right string
}

func (e *ConflictingSignatureError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("proxy: member %q declared as %s and as %s", e.Name, e.Left, e.Right)
}

// ConformanceError lists every descriptor member satisfied by neither the
// delegate's shape nor a local override. Missing preserves descriptor
// declaration order.
type ConformanceError struct {
	Descriptor string
	Missing    []string
}

func (e *ConformanceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("proxy: delegate does not satisfy %q: missing %s", e.Descriptor, strings.Join(e.Missing, ", "))
}

// MemberNotFoundError reports an access that neither an override nor the
// delegate could satisfy.
type MemberNotFoundError struct {
	Name string
}

func (e *MemberNotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("proxy: member %q not found", e.Name)
}

// InvalidForwardError reports misuse of the explicit-forward primitive.
type InvalidForwardError struct {
	Name   string
	Reason string
}

func (e *InvalidForwardError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("proxy: forward %q: %s", e.Name, e.Reason)
}

// EvaluationError captures engine metadata alongside the originating error
// for computed overrides.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("proxy: %s override %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
