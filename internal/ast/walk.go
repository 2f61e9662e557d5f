package ast

// Children returns the direct child nodes of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil {
			out = append(out, n)
		}
	}
	addExpr := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}

	switch n := node.(type) {
	case *Contract:
		for _, item := range n.Items {
			add(item)
		}
	case *ConstDecl:
		if n.Type != nil {
			add(n.Type)
		}
		addExpr(n.Value)
	case *Struct:
		for _, f := range n.Fields {
			add(f)
		}
	case *StructField:
		if n.VariableType != nil {
			add(n.VariableType)
		}
	case *VariableType:
		if n.Elem != nil {
			add(n.Elem)
		}
		for _, g := range n.Generics {
			add(g)
		}
	case *Function:
		for _, p := range n.Params {
			add(p)
		}
		if n.Return != nil {
			add(n.Return)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *FunctionParam:
		if n.Type != nil {
			add(n.Type)
		}
	case *FunctionBlock:
		for _, item := range n.Items {
			add(item)
		}
		if n.TailExpr != nil {
			add(n.TailExpr)
		}
	case *ExprStmt:
		addExpr(n.Expr)
	case *ReturnStmt:
		addExpr(n.Value)
	case *LetStmt:
		if n.Type != nil {
			add(n.Type)
		}
		addExpr(n.Expr)
	case *AssignStmt:
		addExpr(n.Target)
		addExpr(n.Value)
	case *AssertStmt:
		for _, a := range n.Args {
			addExpr(a)
		}
	case *IfStmt:
		addExpr(n.Cond)
		if n.Then != nil {
			add(n.Then)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *ForStmt:
		if n.Type != nil {
			add(n.Type)
		}
		addExpr(n.Iter)
		if n.Body != nil {
			add(n.Body)
		}
	case *BinaryExpr:
		addExpr(n.Left)
		addExpr(n.Right)
	case *UnaryExpr:
		addExpr(n.Value)
	case *CallExpr:
		addExpr(n.Callee)
		for _, a := range n.Args {
			addExpr(a)
		}
	case *FieldAccessExpr:
		addExpr(n.Target)
	case *IndexExpr:
		addExpr(n.Target)
		addExpr(n.Index)
	case *StructLiteralExpr:
		for i := range n.Fields {
			add(&n.Fields[i])
		}
	case *StructLiteralField:
		addExpr(n.Value)
	case *ParenExpr:
		addExpr(n.Value)
	case *TupleExpr:
		for _, e := range n.Elements {
			addExpr(e)
		}
	case *ListExpr:
		for _, e := range n.Elements {
			addExpr(e)
		}
	case *IfExpr:
		addExpr(n.Cond)
		addExpr(n.Then)
		addExpr(n.Else)
	}
	return out
}

// Inspect traverses the tree rooted at node in depth-first order. If f
// returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, c := range Children(node) {
		Inspect(c, f)
	}
}
