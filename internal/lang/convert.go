package lang

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

func toPoint(p lexer.Position) Point {
	return Point{Line: p.Line, Col: p.Column - 1}
}

func toSpan(start, end lexer.Position) Span {
	return TextSpan{Start: toPoint(start), End: toPoint(end)}
}

// unescape strips the surrounding quote character and resolves the escape
// sequences allowed by spec.md §4.1: \t \r \n \\ \" \'. Any other escape is
// a lex error.
func unescape(raw string, quote byte) (string, error) {
	if len(raw) < 2 || raw[0] != quote || raw[len(raw)-1] != quote {
		return "", errAt(NoSpan, "BadLiteral", "malformed quoted literal %q", raw)
	}
	body := raw[1 : len(raw)-1]

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errAt(NoSpan, "BadEscape", "trailing backslash in %q", raw)
		}
		switch body[i] {
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			return "", errAt(NoSpan, "BadEscape", "unsupported escape sequence \\%c in %q", body[i], raw)
		}
	}
	return b.String(), nil
}

func convertValue(v *valueAST) (Value, error) {
	span := toSpan(v.Pos, v.EndPos)
	switch {
	case v.Hole:
		return Value{Kind: Hole, Span: span}, nil
	case v.Str != nil:
		s, err := unescape(*v.Str, '"')
		if err != nil {
			if pe, ok := err.(ParseError); ok {
				pe.Span = span
				return Value{}, pe
			}
			return Value{}, err
		}
		return Value{Kind: StringLit, Text: s, Span: span}, nil
	case v.MetaVar != nil:
		return Value{Kind: MetaVarRef, Text: strings.TrimPrefix(*v.MetaVar, "$"), Span: span}, nil
	case v.Ident != nil:
		name, err := identText(*v.Ident, span)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: VarRef, Text: name, Span: span}, nil
	default:
		return Value{}, errAt(span, "BadValue", "value matched no alternative")
	}
}

// identText resolves a raw Ident-or-SQuote token into its text, unescaping
// single-quoted spellings.
func identText(raw string, span Span) (string, error) {
	if len(raw) > 0 && raw[0] == '\'' {
		s, err := unescape(raw, '\'')
		if err != nil {
			if pe, ok := err.(ParseError); ok {
				pe.Span = span
				return "", pe
			}
			return "", err
		}
		return s, nil
	}
	return raw, nil
}

func convertPredicate(p *predicateAST) (Predicate, error) {
	span := toSpan(p.Pos, p.EndPos)
	name, err := identText(p.Name, span)
	if err != nil {
		return Predicate{}, err
	}
	args := make([]Value, len(p.Args))
	for i, a := range p.Args {
		v, err := convertValue(a)
		if err != nil {
			return Predicate{}, err
		}
		args[i] = v
	}
	return Predicate{Name: name, Args: args, Span: span}, nil
}

func convertBodyLit(b *bodyLitAST) (BodyLiteral, error) {
	span := toSpan(b.Pos, b.EndPos)
	pred, err := convertPredicate(b.Pred)
	if err != nil {
		return BodyLiteral{}, err
	}
	return BodyLiteral{Negated: b.Negated, Pred: pred, Span: span}, nil
}

func convertClause(c *clauseAST) (Clause, error) {
	span := toSpan(c.Pos, c.EndPos)
	head, err := convertPredicate(c.Head)
	if err != nil {
		return Clause{}, err
	}
	body := make([]BodyLiteral, len(c.Body))
	for i, b := range c.Body {
		lit, err := convertBodyLit(b)
		if err != nil {
			return Clause{}, err
		}
		body[i] = lit
	}
	return Clause{Head: head, Body: body, Span: span}, nil
}

func convertFile(f *fileAST) (*Query, error) {
	span := toSpan(f.Pos, f.EndPos)
	clauses := make([]Clause, len(f.Clauses))
	for i, c := range f.Clauses {
		cl, err := convertClause(c)
		if err != nil {
			return nil, err
		}
		clauses[i] = cl
	}
	goal, err := convertPredicate(f.Goal)
	if err != nil {
		return nil, err
	}
	return &Query{Clauses: clauses, Goal: goal, Span: span}, nil
}
