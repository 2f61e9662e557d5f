package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(offset int) Position {
	return Position{Filename: "test.ka", Offset: offset, Line: 1, Column: offset + 1}
}

func TestAssignMetadataAssignsParents(t *testing.T) {
	source := "xs.pop()"
	target := &IdentExpr{Pos: pos(0), EndPos: pos(2), Name: "xs"}
	callee := &FieldAccessExpr{Pos: pos(0), EndPos: pos(6), Target: target, Field: "pop"}
	call := &CallExpr{Pos: pos(0), EndPos: pos(8), Callee: callee}

	mv := NewMetadataVisitor(source)
	mv.AssignMetadata(call, 0)

	require.NotNil(t, call.GetMetadata())
	assert.Equal(t, "xs.pop()", call.GetMetadata().SourceText)
	assert.Equal(t, call.GetMetadata().NodeID, callee.GetMetadata().ParentID)
	assert.Equal(t, callee.GetMetadata().NodeID, target.GetMetadata().ParentID)
	assert.Equal(t, 3, mv.GetTracker().Len())

	found := mv.FindNodeByPosition(pos(1))
	assert.Same(t, target, found.(*IdentExpr))
}

func TestAnnotateLoopSurvivesMetadataAssignment(t *testing.T) {
	loop := &ForStmt{Pos: pos(0), EndPos: pos(10), Var: Ident{Value: "i"}, Body: &FunctionBlock{}}
	assert.Nil(t, LoopInfo(loop))

	AnnotateLoop(loop, &LoopMetadata{SpaceKind: "range", ElementType: "U8", Bound: "10", Materialized: true})

	mv := NewMetadataVisitor("")
	mv.AssignMetadata(loop, 0)

	info := LoopInfo(loop)
	require.NotNil(t, info)
	assert.Equal(t, "range", info.SpaceKind)
	assert.True(t, info.Materialized)

	loops := mv.GetNodesByType(FOR_STMT)
	require.Len(t, loops, 1)
	assert.Contains(t, mv.PrintDebugInfo(), "Loop: range U8 bound=10")
}

func TestSourceRangeString(t *testing.T) {
	r := CreateSourceRange(Position{Filename: "a.ka", Line: 2, Column: 3}, Position{Filename: "a.ka", Line: 2, Column: 9})
	assert.Equal(t, "a.ka:2:3-9", r.String())
	assert.True(t, CreateSourceRange(pos(0), pos(4)).Contains(pos(4)))
	assert.False(t, CreateSourceRange(pos(0), pos(4)).Contains(pos(5)))
}
