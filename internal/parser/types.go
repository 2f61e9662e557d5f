package parser

import "fmt"

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers + literals
	IDENTIFIER
	NUMBER
	HEX_NUMBER
	STRING
	BYTES

	// Keywords
	FN
	LET
	IF
	ELSE
	RETURN
	CONTRACT
	MODULE
	ASSERT
	USE
	STRUCT
	CONST
	EXT
	MUT
	FOR
	IN
	BREAK
	CONTINUE
	TRUE
	FALSE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	BANG_EQUAL
	EQUAL
	EQUAL_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	AND
	AMPERSAND
	OR
	PIPE
	ARROW

	// Assignment operators
	PLUS_EQUAL
	MINUS_EQUAL
	STAR_EQUAL
	SLASH_EQUAL
	PERCENT_EQUAL

	// Separators
	COMMA
	DOT
	SEMICOLON
	COLON
	DOUBLE_COLON

	// Brackets
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_BRACKET
	RIGHT_BRACKET
	POUND

	// Comments
	COMMENT
	DOC_COMMENT
	BLOCK_COMMENT
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENTIFIER: "IDENTIFIER", NUMBER: "NUMBER", HEX_NUMBER: "HEX_NUMBER", STRING: "STRING", BYTES: "BYTES",
	FN: "fn", LET: "let", IF: "if", ELSE: "else", RETURN: "return", CONTRACT: "contract", MODULE: "module",
	ASSERT: "assert", USE: "use", STRUCT: "struct", CONST: "const", EXT: "ext", MUT: "mut",
	FOR: "for", IN: "in", BREAK: "break", CONTINUE: "continue", TRUE: "true", FALSE: "false",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", BANG: "!", BANG_EQUAL: "!=",
	EQUAL: "=", EQUAL_EQUAL: "==", LESS: "<", LESS_EQUAL: "<=", GREATER: ">", GREATER_EQUAL: ">=",
	AND: "&&", AMPERSAND: "&", OR: "||", PIPE: "|", ARROW: "->",
	PLUS_EQUAL: "+=", MINUS_EQUAL: "-=", STAR_EQUAL: "*=", SLASH_EQUAL: "/=", PERCENT_EQUAL: "%=",
	COMMA: ",", DOT: ".", SEMICOLON: ";", COLON: ":", DOUBLE_COLON: "::",
	LEFT_PAREN: "(", RIGHT_PAREN: ")", LEFT_BRACE: "{", RIGHT_BRACE: "}",
	LEFT_BRACKET: "[", RIGHT_BRACKET: "]", POUND: "#",
	COMMENT: "COMMENT", DOC_COMMENT: "DOC_COMMENT", BLOCK_COMMENT: "BLOCK_COMMENT",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based absolute index in input
}
