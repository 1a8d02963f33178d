package lang

import (
	"errors"

	"github.com/alecthomas/participle/v2"
)

// Parse lexes and parses src into a surface Query, preserving source spans.
func Parse(src string) (*Query, error) {
	ast, err := queryParser.ParseString("", src)
	if err != nil {
		return nil, translateParseErr(err)
	}
	return convertFile(ast)
}

// translateParseErr wraps participle's own error into our ParseError shape.
// participle's UnexpectedTokenError and lexer errors carry a position we
// can recover via errors.As; anything else is surfaced as a generic syntax
// error with no span.
func translateParseErr(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		span := TextSpan{
			Start: Point{Line: pos.Line, Col: pos.Column - 1},
			End:   Point{Line: pos.Line, Col: pos.Column - 1},
		}
		return ParseError{Kind: "Syntax", Message: perr.Message(), Span: span}
	}
	return ParseError{Kind: "Syntax", Message: err.Error(), Span: NoSpan}
}
