package ir

import (
	"fmt"

	"github.com/remexre/g1/internal/lang"
)

// LoweringError is raised while translating a surface Query into the
// nameless IR: too many variables or predicates for the index space,
// redefinition of a built-in, or a call to an undeclared functor.
type LoweringError struct {
	Kind    string
	Message string
	Span    lang.Span
}

func (e LoweringError) Error() string {
	return fmt.Sprintf("lowering error (%v) at %v: %v", e.Kind, e.Span, e.Message)
}

func errAt(span lang.Span, kind, format string, args ...any) error {
	return LoweringError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}
