// Package lang implements the surface query language: lexing, parsing, and
// the surface AST described by the data model (values, predicates, clauses,
// queries).
package lang

import "fmt"

// Point is a 1-based line, 0-based column position in source text, counted
// from the start of the line.
type Point struct {
	Line int
	Col  int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is an abstract source range. The textual front-end implements it with
// TextSpan; the embedded front-end (internal/embed) substitutes its own
// implementation so downstream IR and validator code never depends on
// lexer internals.
type Span interface {
	fmt.Stringer
}

// TextSpan is the Span implementation used by the textual front-end.
type TextSpan struct {
	Start, End Point
}

func (s TextSpan) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// NoSpan is used where no meaningful source position exists.
var NoSpan Span = noSpan{}

type noSpan struct{}

func (noSpan) String() string { return "<no span>" }
