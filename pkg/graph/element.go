package graph

import "fmt"

// ElementKind distinguishes node and edge elements.
type ElementKind uint8

const (
	// KindNone is the kind of the zero (unbound) Element.
	KindNone ElementKind = iota
	KindNode
	KindEdge
)

// String returns "node", "edge" or "none".
func (k ElementKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	default:
		return "none"
	}
}

// ParseElementKind parses "node" or "edge".
func ParseElementKind(s string) (ElementKind, error) {
	switch s {
	case "node":
		return KindNode, nil
	case "edge":
		return KindEdge, nil
	}
	return KindNone, fmt.Errorf("unknown element kind %q (want node or edge)", s)
}

// Element is a comparable handle to either a node or an edge.
// The zero value is unbound.
type Element struct {
	kind ElementKind
	id   int
}

// NodeElement returns the element for a node handle.
func NodeElement(id NodeID) Element { return Element{kind: KindNode, id: int(id)} }

// EdgeElement returns the element for an edge handle.
func EdgeElement(id EdgeID) Element { return Element{kind: KindEdge, id: int(id)} }

// Kind returns the element's kind.
func (e Element) Kind() ElementKind { return e.kind }

// IsBound reports whether e refers to a node or an edge.
func (e Element) IsBound() bool { return e.kind != KindNone }

// IsNode reports whether e refers to a node.
func (e Element) IsNode() bool { return e.kind == KindNode }

// IsEdge reports whether e refers to an edge.
func (e Element) IsEdge() bool { return e.kind == KindEdge }

// Node returns the node handle, or -1 if e is not a node.
func (e Element) Node() NodeID {
	if e.kind != KindNode {
		return -1
	}
	return NodeID(e.id)
}

// Edge returns the edge handle, or -1 if e is not an edge.
func (e Element) Edge() EdgeID {
	if e.kind != KindEdge {
		return -1
	}
	return EdgeID(e.id)
}

func (e Element) String() string {
	switch e.kind {
	case KindNode:
		return fmt.Sprintf("n%d", e.id)
	case KindEdge:
		return fmt.Sprintf("e%d", e.id)
	default:
		return "_"
	}
}

// Contains reports whether e is a bound element of this graph.
func (g *Graph) Contains(e Element) bool {
	switch e.kind {
	case KindNode:
		return g.HasNode(NodeID(e.id))
	case KindEdge:
		return g.HasEdge(EdgeID(e.id))
	}
	return false
}

// ElementKey returns the node or edge key of e, or "" when e is unbound or
// foreign to this graph.
func (g *Graph) ElementKey(e Element) string {
	switch e.kind {
	case KindNode:
		return g.Key(e.Node())
	case KindEdge:
		if g.HasEdge(e.Edge()) {
			return g.edges[e.id].Key
		}
	}
	return ""
}

// NodeElements returns the elements of all nodes in insertion order.
func (g *Graph) NodeElements() []Element {
	els := make([]Element, len(g.nodes))
	for i := range g.nodes {
		els[i] = NodeElement(NodeID(i))
	}
	return els
}

// EdgeElements returns the elements of all edges in insertion order.
func (g *Graph) EdgeElements() []Element {
	els := make([]Element, len(g.edges))
	for i := range g.edges {
		els[i] = EdgeElement(EdgeID(i))
	}
	return els
}
