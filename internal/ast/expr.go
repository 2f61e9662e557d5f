package ast

type Expr interface {
	Node
	isExpr()
}

func (*BadExpr) isExpr() {}

func (*BinaryExpr) isExpr() {}

func (*UnaryExpr) isExpr() {}

func (*CallExpr) isExpr() {}

func (*FieldAccessExpr) isExpr() {}

func (*IndexExpr) isExpr() {}

func (*StructLiteralExpr) isExpr() {}

func (*LiteralExpr) isExpr() {}

func (*IdentExpr) isExpr() {}

func (*CalleePath) isExpr() {}

func (*StructLiteralField) isExpr() {}

func (*ParenExpr) isExpr() {}

func (*TupleExpr) isExpr() {}

func (*ListExpr) isExpr() {}

func (*IfExpr) isExpr() {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.Value
	}
}
