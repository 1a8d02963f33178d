package validate

import (
	"fmt"

	"github.com/remexre/g1/internal/lang"
)

// ValidationError reports one broken invariant found after lowering. Kind
// is one of BadArgn, BadStratification, NeverUsedPositively, or
// BadVariableIndex. NoSuchClause and IllegalRecursion are detected during
// lowering and reported as ir.LoweringError kinds.
type ValidationError struct {
	Kind    string
	Message string
	Span    lang.Span
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error (%v) at %v: %v", e.Kind, e.Span, e.Message)
}

func errAt(span lang.Span, kind, format string, args ...any) error {
	return ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}
