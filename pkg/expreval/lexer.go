package expreval

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer defines the lexical structure of SPICE parameter expressions.
// The grammar follows ngspice's expression syntax (see dbNetlistSpiceReader
// ExpressionParser.cc in the original KLayout implementation): ternary,
// logical, comparison, additive, multiplicative and power operators over
// numbers with optional SI-unit suffixes, identifiers and function calls.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	{Name: "Pow", Pattern: `\*\*`},
	{Name: "Eq", Pattern: `==`},
	{Name: "Ne", Pattern: `!=`},
	{Name: "Le", Pattern: `<=`},
	{Name: "Ge", Pattern: `>=`},
	{Name: "And", Pattern: `&&`},
	{Name: "Or", Pattern: `\|\|`},

	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?[A-Za-z]*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},

	{Name: "String", Pattern: `'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`},

	{Name: "Question", Pattern: `\?`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Caret", Pattern: `\^`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Minus", Pattern: `-`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Not", Pattern: `!`},
	{Name: "Lt", Pattern: `<`},
	{Name: "Gt", Pattern: `>`},
})
