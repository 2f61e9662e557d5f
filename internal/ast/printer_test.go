package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractString(t *testing.T) {
	contract := &Contract{
		Kind: ModuleUnit,
		Name: Ident{Value: "lib1"},
		Items: []ContractItem{
			&Use{Module: Ident{Value: "lib2"}},
		},
	}

	assert.Equal(t, "module lib1 {\n  use lib2;\n}", contract.String())
}

func TestVariableTypeString(t *testing.T) {
	u256 := &VariableType{Name: Ident{Value: "U256"}}

	tests := []struct {
		name string
		typ  *VariableType
		want string
	}{
		{"simple", u256, "U256"},
		{"array", &VariableType{Elem: u256, Len: "4"}, "U256[4]"},
		{"nested array", &VariableType{Elem: &VariableType{Elem: u256, Len: "3"}, Len: "2"}, "U256[3][2]"},
		{"dynarray", &VariableType{
			Name:     Ident{Value: "DynArray"},
			Generics: []*VariableType{u256, {Size: "5"}},
		}, "DynArray<U256, 5>"},
		{"qualified", &VariableType{Module: &Ident{Value: "lib1"}, Name: Ident{Value: "Foo"}}, "lib1::Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestForStmtString(t *testing.T) {
	loop := &ForStmt{
		Var:  Ident{Value: "i"},
		Type: &VariableType{Name: Ident{Value: "U256"}},
		Iter: &CallExpr{
			Callee: &IdentExpr{Name: "range"},
			Args:   []Expr{&LiteralExpr{Kind: IntLiteral, Value: "10"}},
		},
		Body: &FunctionBlock{Items: []FunctionBlockItem{&BreakStmt{}}},
	}

	assert.Equal(t, "for i: U256 in range(10) {\n  break;\n}", loop.String())
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, `b"asdf"`, (&LiteralExpr{Kind: BytesLiteral, Value: "asdf"}).String())
	assert.Equal(t, `"hi"`, (&LiteralExpr{Kind: StringLiteral, Value: "hi"}).String())
	assert.Equal(t, "[1, 2]", (&ListExpr{Elements: []Expr{
		&LiteralExpr{Value: "1"}, &LiteralExpr{Value: "2"},
	}}).String())
}

func TestInspectVisitsLoopBody(t *testing.T) {
	pop := &CallExpr{Callee: &FieldAccessExpr{Target: &IdentExpr{Name: "xs"}, Field: "pop"}}
	loop := &ForStmt{
		Var:  Ident{Value: "x"},
		Type: &VariableType{Name: Ident{Value: "U256"}},
		Iter: &IdentExpr{Name: "xs"},
		Body: &FunctionBlock{Items: []FunctionBlockItem{&ExprStmt{Expr: pop, Semicolon: true}}},
	}

	var calls []*CallExpr
	Inspect(loop, func(n Node) bool {
		if c, ok := n.(*CallExpr); ok {
			calls = append(calls, c)
		}
		return true
	})

	require.Len(t, calls, 1)
	assert.Same(t, pop, calls[0])
}

func TestInspectSkipsChildren(t *testing.T) {
	inner := &ForStmt{Var: Ident{Value: "j"}, Iter: &IdentExpr{Name: "ys"}, Body: &FunctionBlock{}}
	outer := &ForStmt{
		Var:  Ident{Value: "i"},
		Iter: &IdentExpr{Name: "xs"},
		Body: &FunctionBlock{Items: []FunctionBlockItem{inner}},
	}

	var loops []string
	Inspect(outer, func(n Node) bool {
		if f, ok := n.(*ForStmt); ok {
			loops = append(loops, f.Var.Value)
			return f == outer
		}
		return true
	})

	assert.Equal(t, []string{"i", "j"}, loops)
}

func TestUnparen(t *testing.T) {
	id := &IdentExpr{Name: "xs"}
	assert.Same(t, id, Unparen(&ParenExpr{Value: &ParenExpr{Value: id}}).(*IdentExpr))
}
