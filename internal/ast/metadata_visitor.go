package ast

import (
	"fmt"
	"sort"
	"strings"
)

// MetadataVisitor provides utilities for working with metadata across the AST
type MetadataVisitor struct {
	tracker    *NodeTracker
	nodes      map[NodeID]Node
	sourceText string
}

// NewMetadataVisitor creates a new metadata visitor
func NewMetadataVisitor(sourceText string) *MetadataVisitor {
	return &MetadataVisitor{
		tracker:    NewNodeTracker(),
		nodes:      make(map[NodeID]Node),
		sourceText: sourceText,
	}
}

// AssignMetadata assigns metadata to a node and all its children
func (mv *MetadataVisitor) AssignMetadata(node Node, parentID NodeID) {
	if node == nil {
		return
	}

	nodeID := mv.tracker.GenerateID()
	start := node.NodePos()
	end := node.NodeEndPos()

	metadata := &Metadata{
		NodeID:     nodeID,
		Source:     CreateSourceRange(start, end),
		SourceText: mv.extractSourceText(start, end),
		ParentID:   parentID,
	}
	// keep anything the analyzer already attached
	if old := node.GetMetadata(); old != nil {
		metadata.CompilationInfo = old.CompilationInfo
	}

	node.SetMetadata(metadata)
	mv.tracker.SetMetadata(nodeID, metadata)
	mv.nodes[nodeID] = node

	for _, child := range Children(node) {
		mv.AssignMetadata(child, nodeID)
	}
}

// extractSourceText extracts the source text between two positions
func (mv *MetadataVisitor) extractSourceText(start, end Position) string {
	if mv.sourceText == "" {
		return ""
	}
	if start.Offset < 0 || end.Offset < 0 || start.Offset > len(mv.sourceText) || end.Offset > len(mv.sourceText) {
		return ""
	}
	if start.Offset > end.Offset {
		return ""
	}
	return mv.sourceText[start.Offset:end.Offset]
}

// GetTracker returns the node tracker
func (mv *MetadataVisitor) GetTracker() *NodeTracker {
	return mv.tracker
}

// FindNodeByPosition returns the innermost node whose range contains pos.
func (mv *MetadataVisitor) FindNodeByPosition(pos Position) Node {
	var best Node
	bestWidth := -1
	for id, meta := range mv.tracker.metadata {
		if !meta.Source.Contains(pos) {
			continue
		}
		width := meta.Source.End.Offset - meta.Source.Start.Offset
		if bestWidth < 0 || width < bestWidth {
			best, bestWidth = mv.nodes[id], width
		}
	}
	return best
}

// FindEnclosing returns the innermost node of the given type containing pos.
func (mv *MetadataVisitor) FindEnclosing(pos Position, nodeType NodeType) Node {
	var best Node
	bestWidth := -1
	for id, meta := range mv.tracker.metadata {
		n := mv.nodes[id]
		if n.NodeType() != nodeType || !meta.Source.Contains(pos) {
			continue
		}
		width := meta.Source.End.Offset - meta.Source.Start.Offset
		if bestWidth < 0 || width < bestWidth {
			best, bestWidth = n, width
		}
	}
	return best
}

// GetNodesByType returns all nodes of a specific type in source order
func (mv *MetadataVisitor) GetNodesByType(nodeType NodeType) []Node {
	var result []Node
	for _, n := range mv.nodes {
		if n.NodeType() == nodeType {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NodePos().Offset < result[j].NodePos().Offset
	})
	return result
}

// PrintDebugInfo prints debugging information about all nodes
func (mv *MetadataVisitor) PrintDebugInfo() string {
	ids := make([]int, 0, len(mv.nodes))
	for id := range mv.nodes {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	var sb strings.Builder
	sb.WriteString("=== AST Metadata Debug Info ===\n")
	for _, id := range ids {
		meta := mv.tracker.metadata[NodeID(id)]
		fmt.Fprintf(&sb, "%s %s\n", mv.nodes[NodeID(id)].NodeType(), meta)
		if meta.CompilationInfo != nil && meta.CompilationInfo.Loop != nil {
			loop := meta.CompilationInfo.Loop
			fmt.Fprintf(&sb, "   Loop: %s %s bound=%s roots=%v\n", loop.SpaceKind, loop.ElementType, loop.Bound, loop.Roots)
		}
	}
	return sb.String()
}
