package ast

import "fmt"

type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota
	BAD_CONTRACT_ITEM
	BAD_EXPR

	// Comments
	DOC_COMMENT
	COMMENT

	// High-level constructs
	CONTRACT
	ATTRIBUTE

	// Imports and declarations
	USE
	CONST_DECL
	STRUCT
	STRUCT_FIELD

	// Types
	TYPE
	IDENT

	// Functions
	FUNCTION
	FUNCTION_PARAM

	// Statements
	FUNCTION_BLOCK
	EXPR_STMT
	RETURN_STMT
	LET_STMT
	ASSIGN_STMT
	ASSERT_STMT
	IF_STMT
	FOR_STMT
	BREAK_STMT
	CONTINUE_STMT

	// Expressions
	BINARY_EXPR
	UNARY_EXPR
	CALL_EXPR
	FIELD_ACCESS_EXPR
	INDEX_EXPR
	STRUCT_LITERAL_EXPR
	LITERAL_EXPR
	IDENT_EXPR
	CALLEE_PATH
	STRUCT_LITERAL_FIELD
	PAREN_EXPR
	TUPLE_EXPR
	LIST_EXPR
	IF_EXPR
)

var nodeTypeNames = [...]string{
	ILLEGAL: "ILLEGAL",
	BAD_CONTRACT_ITEM: "BAD_CONTRACT_ITEM",
	BAD_EXPR: "BAD_EXPR",
	DOC_COMMENT: "DOC_COMMENT",
	COMMENT: "COMMENT",
	CONTRACT: "CONTRACT",
	ATTRIBUTE: "ATTRIBUTE",
	USE: "USE",
	CONST_DECL: "CONST_DECL",
	STRUCT: "STRUCT",
	STRUCT_FIELD: "STRUCT_FIELD",
	TYPE: "TYPE",
	IDENT: "IDENT",
	FUNCTION: "FUNCTION",
	FUNCTION_PARAM: "FUNCTION_PARAM",
	FUNCTION_BLOCK: "FUNCTION_BLOCK",
	EXPR_STMT: "EXPR_STMT",
	RETURN_STMT: "RETURN_STMT",
	LET_STMT: "LET_STMT",
	ASSIGN_STMT: "ASSIGN_STMT",
	ASSERT_STMT: "ASSERT_STMT",
	IF_STMT: "IF_STMT",
	FOR_STMT: "FOR_STMT",
	BREAK_STMT: "BREAK_STMT",
	CONTINUE_STMT: "CONTINUE_STMT",
	BINARY_EXPR: "BINARY_EXPR",
	UNARY_EXPR: "UNARY_EXPR",
	CALL_EXPR: "CALL_EXPR",
	FIELD_ACCESS_EXPR: "FIELD_ACCESS_EXPR",
	INDEX_EXPR: "INDEX_EXPR",
	STRUCT_LITERAL_EXPR: "STRUCT_LITERAL_EXPR",
	LITERAL_EXPR: "LITERAL_EXPR",
	IDENT_EXPR: "IDENT_EXPR",
	CALLEE_PATH: "CALLEE_PATH",
	STRUCT_LITERAL_FIELD: "STRUCT_LITERAL_FIELD",
	PAREN_EXPR: "PAREN_EXPR",
	TUPLE_EXPR: "TUPLE_EXPR",
	LIST_EXPR: "LIST_EXPR",
	IF_EXPR: "IF_EXPR",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}
