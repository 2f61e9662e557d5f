package ast

import "fmt"

// NodeID is a unique identifier for each AST node to track it through compilation
type NodeID uint32

// SourceRange represents a range in the source code
type SourceRange struct {
	Start Position
	End   Position
}

// Metadata contains debugging and compilation information for AST nodes
type Metadata struct {
	// Unique identifier for this AST node
	NodeID NodeID

	// Source location information
	Source SourceRange

	// Original source text for this node (useful for debugging)
	SourceText string

	// Parent node ID (0 if root)
	ParentID NodeID

	// Populated during semantic analysis
	CompilationInfo *CompilationMetadata
}

// CompilationMetadata tracks information through the compilation pipeline
type CompilationMetadata struct {
	// Type information resolved during semantic analysis
	TypeInfo *TypeMetadata

	// Verified iteration facts, set on for-loops only
	Loop *LoopMetadata
}

// TypeMetadata contains resolved type information
type TypeMetadata struct {
	TypeName  string
	IsMutable bool
}

// LoopMetadata is the verified summary of a for-loop handed to code generation.
type LoopMetadata struct {
	// "fixed", "dynamic" or "range"
	SpaceKind   string
	ElementType string
	// Length of a fixed space, capacity of a dynamic one, iteration count of a range
	Bound string
	// Storage roots the iterable reads from, rendered as access paths
	Roots []string
	// The iterable is evaluated once, left to right, into a snapshot before the first iteration
	Materialized bool
}

// NodeTracker manages node IDs and metadata
type NodeTracker struct {
	nextID   NodeID
	metadata map[NodeID]*Metadata
}

// NewNodeTracker creates a new node tracker
func NewNodeTracker() *NodeTracker {
	return &NodeTracker{
		nextID:   1, // Start at 1, reserve 0 for "no parent"
		metadata: make(map[NodeID]*Metadata),
	}
}

// GenerateID creates a new unique node ID
func (nt *NodeTracker) GenerateID() NodeID {
	id := nt.nextID
	nt.nextID++
	return id
}

// SetMetadata associates metadata with a node ID
func (nt *NodeTracker) SetMetadata(id NodeID, meta *Metadata) {
	nt.metadata[id] = meta
}

// GetMetadata retrieves metadata for a node ID
func (nt *NodeTracker) GetMetadata(id NodeID) *Metadata {
	return nt.metadata[id]
}

// Len returns the number of tracked nodes
func (nt *NodeTracker) Len() int {
	return len(nt.metadata)
}

// CreateSourceRange creates a SourceRange from start and end positions
func CreateSourceRange(start, end Position) SourceRange {
	return SourceRange{Start: start, End: end}
}

// Contains checks if a position is within this source range
func (sr SourceRange) Contains(pos Position) bool {
	return sr.Start.Offset <= pos.Offset && pos.Offset <= sr.End.Offset
}

// String returns a human-readable representation of the source range
func (sr SourceRange) String() string {
	if sr.Start.Line == sr.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", sr.Start.Filename, sr.Start.Line, sr.Start.Column, sr.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", sr.Start.Filename, sr.Start.Line, sr.Start.Column, sr.End.Line, sr.End.Column)
}

// String returns a human-readable representation of metadata
func (m *Metadata) String() string {
	return fmt.Sprintf("NodeID:%d Source:%s Parent:%d", m.NodeID, m.Source.String(), m.ParentID)
}

// compilation returns the node's compilation metadata, creating what is missing.
func compilation(node Node) *CompilationMetadata {
	m := node.GetMetadata()
	if m == nil {
		m = &Metadata{Source: CreateSourceRange(node.NodePos(), node.NodeEndPos())}
		node.SetMetadata(m)
	}
	if m.CompilationInfo == nil {
		m.CompilationInfo = &CompilationMetadata{}
	}
	return m.CompilationInfo
}

// AnnotateLoop records verified loop facts on a for-loop node.
func AnnotateLoop(loop *ForStmt, info *LoopMetadata) {
	compilation(loop).Loop = info
}

// LoopInfo returns the verified loop facts, or nil if the loop was never annotated.
func LoopInfo(loop *ForStmt) *LoopMetadata {
	m := loop.GetMetadata()
	if m == nil || m.CompilationInfo == nil {
		return nil
	}
	return m.CompilationInfo.Loop
}

// AnnotateType records the resolved type of a node.
func AnnotateType(node Node, typeName string, mutable bool) {
	compilation(node).TypeInfo = &TypeMetadata{TypeName: typeName, IsMutable: mutable}
}
