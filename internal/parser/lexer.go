package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// synqLexer tokenizes SynQ source. Order matters within a rule set:
// multi-character operators are listed ahead of the single-character
// prefixes they share, and Ident is listed ahead of nothing since
// keywords are plain identifiers matched by literal string terminals
// in the grammar rather than their own token kind.
var synqLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"DocComment", `///[^\n]*`, nil},
		{"Comment", `//[^\n]*`, nil},
		{"String", `"(\\.|[^"\\])*"`, nil},
		{"Hex", `0x[0-9a-fA-F]+`, nil},
		{"Number", `[0-9]+`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Operator", `(\.\.|->|==|!=|<=|>=|&&|\|\||[{}()\[\]:;,.=+\-*/%<>!?])`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
