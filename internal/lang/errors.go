package lang

import "fmt"

// ParseError is a lex or parse failure, carrying the span (where known) at
// which it occurred.
type ParseError struct {
	Kind    string
	Message string
	Span    Span
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error (%v) at %v: %v", e.Kind, e.Span, e.Message)
}

func errAt(span Span, kind, format string, args ...any) error {
	return ParseError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}
