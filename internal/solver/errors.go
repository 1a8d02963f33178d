package solver

import "fmt"

// SolverError reports a failure during evaluation: an unresolved
// metavariable that slipped past the embedding layer, an equality literal
// that could not be oriented (neither side bound), or cancellation via the
// caller's context.
type SolverError struct {
	Kind    string
	Message string
}

func (e SolverError) Error() string {
	return fmt.Sprintf("solver error (%v): %v", e.Kind, e.Message)
}

func errf(kind, format string, args ...any) error {
	return SolverError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
