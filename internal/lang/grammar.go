package lang

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar structs below are the participle-facing AST: raw token text,
// untranslated positions. convert.go turns these into the exported surface
// AST (Value, Predicate, Clause, Query) that the rest of the pipeline uses.

type fileAST struct {
	Pos     lexer.Position
	Clauses []*clauseAST  `parser:"@@*"`
	Goal    *predicateAST `parser:"\"?-\" @@ \".\""`
	EndPos  lexer.Position
}

type clauseAST struct {
	Pos    lexer.Position
	Head   *predicateAST `parser:"@@"`
	Body   []*bodyLitAST `parser:"( \":-\" @@ ( \",\" @@ )* )? \".\""`
	EndPos lexer.Position
}

type bodyLitAST struct {
	Pos     lexer.Position
	Negated bool          `parser:"( @\"!\" )?"`
	Pred    *predicateAST `parser:"@@"`
	EndPos  lexer.Position
}

type predicateAST struct {
	Pos    lexer.Position
	Name   string      `parser:"@(Ident|SQuote)"`
	Args   []*valueAST `parser:"\"(\" ( @@ ( \",\" @@ )* )? \")\""`
	EndPos lexer.Position
}

type valueAST struct {
	Pos     lexer.Position
	Hole    bool    `parser:"  @\"_\""`
	Str     *string `parser:"| @String"`
	MetaVar *string `parser:"| @MetaVar"`
	Ident   *string `parser:"| @(Ident|SQuote)"`
	EndPos  lexer.Position
}

var queryParser = participle.MustBuild[fileAST](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)
