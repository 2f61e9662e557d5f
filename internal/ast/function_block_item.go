package ast

type FunctionBlockItem interface {
	Node
	isBlockItem()
}

func (*LetStmt) isBlockItem()       {}
func (*AssignStmt) isBlockItem()    {}
func (*AssertStmt) isBlockItem()    {}
func (*ReturnStmt) isBlockItem()    {}
func (*ExprStmt) isBlockItem()      {}
func (*IfStmt) isBlockItem()        {}
func (*ForStmt) isBlockItem()       {}
func (*BreakStmt) isBlockItem()     {}
func (*ContinueStmt) isBlockItem()  {}
func (*FunctionBlock) isBlockItem() {}
func (*Comment) isBlockItem()       {}
