// Package embed lets a host Go program build a query from a literal string
// plus a set of metavariable bindings, instead of composing the surface
// syntax by hand. It reuses the same parser, lowering, and validation
// pipeline as the textual front-end, so spans in the result are TextSpans
// within src. HostSpan is a lang.Span for locations in the host program;
// Build does not attach it.
package embed

import (
	"fmt"

	"github.com/remexre/g1/internal/ir"
	"github.com/remexre/g1/internal/lang"
	"github.com/remexre/g1/internal/validate"
)

// HostSpan identifies a location in the calling Go source rather than in
// the embedded query text, satisfying lang.Span so the rest of the
// pipeline never has to special-case it.
type HostSpan struct {
	File string
	Line int
}

func (h HostSpan) String() string { return fmt.Sprintf("%s:%d", h.File, h.Line) }

// Build parses src, substitutes every metavariable named in bindings with
// its bound ground string, and lowers and validates the result. A
// metavariable with no entry in bindings is reported as a LoweringError
// (UnresolvedMetaVar) rather than silently passed through to the solver.
func Build(src string, bindings map[string]string) (*ir.Query, error) {
	q, err := lang.Parse(src)
	if err != nil {
		return nil, err
	}
	q = substituteQuery(q, bindings)
	if v, ok := findUnresolvedMetaVar(q); ok {
		return nil, ir.LoweringError{
			Kind:    "UnresolvedMetaVar",
			Message: fmt.Sprintf("metavariable $%s has no binding", v.Text),
			Span:    v.Span,
		}
	}
	nq, err := ir.Lower(q)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(nq); err != nil {
		return nil, err
	}
	return nq, nil
}

func substituteValue(v lang.Value, bindings map[string]string) lang.Value {
	if v.Kind != lang.MetaVarRef {
		return v
	}
	val, ok := bindings[v.Text]
	if !ok {
		return v
	}
	return lang.Value{Kind: lang.StringLit, Text: val, Span: v.Span}
}

func substitutePredicate(p lang.Predicate, bindings map[string]string) lang.Predicate {
	args := make([]lang.Value, len(p.Args))
	for i, a := range p.Args {
		args[i] = substituteValue(a, bindings)
	}
	return lang.Predicate{Name: p.Name, Args: args, Span: p.Span}
}

func substituteQuery(q *lang.Query, bindings map[string]string) *lang.Query {
	clauses := make([]lang.Clause, len(q.Clauses))
	for i, c := range q.Clauses {
		body := make([]lang.BodyLiteral, len(c.Body))
		for j, b := range c.Body {
			body[j] = lang.BodyLiteral{
				Negated: b.Negated,
				Pred:    substitutePredicate(b.Pred, bindings),
				Span:    b.Span,
			}
		}
		clauses[i] = lang.Clause{Head: substitutePredicate(c.Head, bindings), Body: body, Span: c.Span}
	}
	return &lang.Query{Clauses: clauses, Goal: substitutePredicate(q.Goal, bindings), Span: q.Span}
}

func findUnresolvedMetaVar(q *lang.Query) (lang.Value, bool) {
	check := func(p lang.Predicate) (lang.Value, bool) {
		for _, a := range p.Args {
			if a.Kind == lang.MetaVarRef {
				return a, true
			}
		}
		return lang.Value{}, false
	}
	for _, c := range q.Clauses {
		if v, ok := check(c.Head); ok {
			return v, true
		}
		for _, b := range c.Body {
			if v, ok := check(b.Pred); ok {
				return v, true
			}
		}
	}
	return check(q.Goal)
}
