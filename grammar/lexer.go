package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var SignatureLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"DocComment", `///[^\n]*`, nil},
		{"Comment", `//[^\n]*`, nil},

		// Keywords and Identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Operators
		{"Arrow", `->`, nil},

		// Punctuation
		{"Punctuation", `[(),.;:]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
