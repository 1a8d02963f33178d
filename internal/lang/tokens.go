package lang

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// queryLexer tokenizes G1 query source. Rules are tried in order, mirroring
// the teacher's lexer.MustSimple rule ordering (keyword before float before
// ident, here comment/whitespace elided first, multi-char operators before
// the punctuation class that would otherwise swallow their first rune).
var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\r\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Query", Pattern: `\?-`},
	{Name: "Turnstile", Pattern: `:-`},
	{Name: "MetaVar", Pattern: `\$[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "SQuote", Pattern: `'([^'\\]|\\.)*'`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
	{Name: "Punct", Pattern: `[(),.!_]`},
})
