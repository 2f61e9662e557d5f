package parser

var KEYWORDS = map[string]TokenType{
	"fn":       FN,
	"let":      LET,
	"if":       IF,
	"else":     ELSE,
	"return":   RETURN,
	"contract": CONTRACT,
	"module":   MODULE,
	"assert":   ASSERT,
	"use":      USE,
	"struct":   STRUCT,
	"const":    CONST,
	"ext":      EXT,
	"mut":      MUT,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
}
