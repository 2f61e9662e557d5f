package ast

type ContractItem interface {
	Node
	isContractItem()
}

func (*BadContractItem) isContractItem() {}

func (*DocComment) isContractItem() {}

func (*Comment) isContractItem() {}

func (*Use) isContractItem() {}

func (*ConstDecl) isContractItem() {}

func (*Struct) isContractItem() {}

func (*Function) isContractItem() {}
