package constraint

import (
	"github.com/matzehuels/pathquery/pkg/graph"
	"github.com/matzehuels/pathquery/pkg/pattern"
)

// node returns the node bound to slot i of m, if any.
func node(m pattern.Match, i int) (graph.NodeID, bool) {
	e := m.Get(i)
	if !e.IsNode() || !m.Graph().Contains(e) {
		return -1, false
	}
	return e.Node(), true
}

// edge returns the edge bound to slot i of m, if any.
func edge(m pattern.Match, i int) (graph.Edge, bool) {
	e := m.Get(i)
	if !e.IsEdge() || !m.Graph().Contains(e) {
		return graph.Edge{}, false
	}
	return m.Graph().Edge(e.Edge()), true
}

func nodeElements(ids []graph.NodeID) []graph.Element {
	seen := make(map[graph.NodeID]bool, len(ids))
	els := make([]graph.Element, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			els = append(els, graph.NodeElement(id))
		}
	}
	return els
}

func edgeElements(ids []graph.EdgeID) []graph.Element {
	els := make([]graph.Element, len(ids))
	for i, id := range ids {
		els[i] = graph.EdgeElement(id)
	}
	return els
}

// filterNodes returns every node of g accepted by keep, in insertion order.
func filterNodes(g *graph.Graph, keep func(graph.NodeID) bool) []graph.Element {
	var els []graph.Element
	for _, id := range g.Nodes() {
		if keep(id) {
			els = append(els, graph.NodeElement(id))
		}
	}
	return els
}

// filterEdges returns every edge of g accepted by keep, in insertion order.
func filterEdges(g *graph.Graph, keep func(graph.Edge) bool) []graph.Element {
	var els []graph.Element
	for _, e := range g.Edges() {
		if keep(e) {
			els = append(els, graph.EdgeElement(e.ID))
		}
	}
	return els
}

type typeConstraint struct{ typ string }

// Type matches nodes whose object is an instance of typ. It generates every
// such node of the graph.
func Type(typ string) pattern.Constraint { return typeConstraint{typ: typ} }

func (typeConstraint) VarCount() int     { return 1 }
func (typeConstraint) CanGenerate() bool { return true }

func (c typeConstraint) Satisfies(m pattern.Match, ind ...int) bool {
	id, ok := node(m, ind[0])
	return ok && m.Graph().IsA(id, c.typ)
}

func (c typeConstraint) Generate(m pattern.Match, _ ...int) []graph.Element {
	g := m.Graph()
	return filterNodes(g, func(id graph.NodeID) bool { return g.IsA(id, c.typ) })
}

type anyNode struct{}

// AnyNode matches any node and generates all nodes.
func AnyNode() pattern.Constraint { return anyNode{} }

func (anyNode) VarCount() int     { return 1 }
func (anyNode) CanGenerate() bool { return true }

func (anyNode) Satisfies(m pattern.Match, ind ...int) bool {
	_, ok := node(m, ind[0])
	return ok
}

func (anyNode) Generate(m pattern.Match, _ ...int) []graph.Element {
	return m.Graph().NodeElements()
}

type anyEdge struct{}

// AnyEdge matches any edge and generates all edges.
func AnyEdge() pattern.Constraint { return anyEdge{} }

func (anyEdge) VarCount() int     { return 1 }
func (anyEdge) CanGenerate() bool { return true }

func (anyEdge) Satisfies(m pattern.Match, ind ...int) bool {
	_, ok := edge(m, ind[0])
	return ok
}

func (anyEdge) Generate(m pattern.Match, _ ...int) []graph.Element {
	return m.Graph().EdgeElements()
}

// stepKind enumerates the adjacency relations between two nodes.
type stepKind uint8

const (
	stepSuccessor stepKind = iota
	stepPredecessor
	stepNeighbor
)

type adjacency struct{ kind stepKind }

// Successor matches (a, b) when the graph has an edge a -> b.
// It generates the targets of a's outgoing edges.
func Successor() pattern.Constraint { return adjacency{kind: stepSuccessor} }

// Predecessor matches (a, b) when the graph has an edge b -> a.
// It generates the sources of a's incoming edges.
func Predecessor() pattern.Constraint { return adjacency{kind: stepPredecessor} }

// Neighbor matches (a, b) when a and b are linked in either direction.
func Neighbor() pattern.Constraint { return adjacency{kind: stepNeighbor} }

func (adjacency) VarCount() int     { return 2 }
func (adjacency) CanGenerate() bool { return true }

func (c adjacency) Satisfies(m pattern.Match, ind ...int) bool {
	a, ok := node(m, ind[0])
	if !ok {
		return false
	}
	b, ok := node(m, ind[1])
	if !ok {
		return false
	}
	g := m.Graph()
	fwd := func() bool { _, ok := g.EdgeByKey(graph.EdgeKey(g.Key(a), g.Key(b))); return ok }
	bwd := func() bool { _, ok := g.EdgeByKey(graph.EdgeKey(g.Key(b), g.Key(a))); return ok }
	switch c.kind {
	case stepSuccessor:
		return fwd()
	case stepPredecessor:
		return bwd()
	default:
		return fwd() || bwd()
	}
}

func (c adjacency) Generate(m pattern.Match, ind ...int) []graph.Element {
	a, ok := node(m, ind[0])
	if !ok {
		return nil
	}
	g := m.Graph()
	switch c.kind {
	case stepSuccessor:
		return nodeElements(g.Successors(a))
	case stepPredecessor:
		return nodeElements(g.Predecessors(a))
	default:
		return nodeElements(append(g.Successors(a), g.Predecessors(a)...))
	}
}

type incidence struct{ out bool }

// OutEdge matches (n, e) when edge e leaves node n.
// It generates n's outgoing edges.
func OutEdge() pattern.Constraint { return incidence{out: true} }

// InEdge matches (n, e) when edge e enters node n.
// It generates n's incoming edges.
func InEdge() pattern.Constraint { return incidence{out: false} }

func (incidence) VarCount() int     { return 2 }
func (incidence) CanGenerate() bool { return true }

func (c incidence) Satisfies(m pattern.Match, ind ...int) bool {
	n, ok := node(m, ind[0])
	if !ok {
		return false
	}
	e, ok := edge(m, ind[1])
	if !ok {
		return false
	}
	if c.out {
		return e.Source == n
	}
	return e.Target == n
}

func (c incidence) Generate(m pattern.Match, ind ...int) []graph.Element {
	n, ok := node(m, ind[0])
	if !ok {
		return nil
	}
	if c.out {
		return edgeElements(m.Graph().Outgoing(n))
	}
	return edgeElements(m.Graph().Incoming(n))
}

type endpoint struct{ source bool }

// EdgeSource matches (e, n) when n is the source of edge e.
func EdgeSource() pattern.Constraint { return endpoint{source: true} }

// EdgeTarget matches (e, n) when n is the target of edge e.
func EdgeTarget() pattern.Constraint { return endpoint{source: false} }

func (endpoint) VarCount() int     { return 2 }
func (endpoint) CanGenerate() bool { return true }

func (c endpoint) pick(e graph.Edge) graph.NodeID {
	if c.source {
		return e.Source
	}
	return e.Target
}

func (c endpoint) Satisfies(m pattern.Match, ind ...int) bool {
	e, ok := edge(m, ind[0])
	if !ok {
		return false
	}
	n, ok := node(m, ind[1])
	return ok && c.pick(e) == n
}

func (c endpoint) Generate(m pattern.Match, ind ...int) []graph.Element {
	e, ok := edge(m, ind[0])
	if !ok {
		return nil
	}
	return []graph.Element{graph.NodeElement(c.pick(e))}
}

type edgeSign struct{ sign graph.Sign }

// EdgeSign matches edges with the given sign and generates all of them.
func EdgeSign(s graph.Sign) pattern.Constraint { return edgeSign{sign: s} }

func (edgeSign) VarCount() int     { return 1 }
func (edgeSign) CanGenerate() bool { return true }

func (c edgeSign) Satisfies(m pattern.Match, ind ...int) bool {
	e, ok := edge(m, ind[0])
	return ok && e.Sign == c.sign
}

func (c edgeSign) Generate(m pattern.Match, _ ...int) []graph.Element {
	return filterEdges(m.Graph(), func(e graph.Edge) bool { return e.Sign == c.sign })
}

type edgeType struct{ types map[string]bool }

// EdgeType matches edges whose relation type is one of types and
// generates all of them.
func EdgeType(types ...string) pattern.Constraint {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return edgeType{types: set}
}

func (edgeType) VarCount() int     { return 1 }
func (edgeType) CanGenerate() bool { return true }

func (c edgeType) Satisfies(m pattern.Match, ind ...int) bool {
	e, ok := edge(m, ind[0])
	return ok && c.types[e.Type]
}

func (c edgeType) Generate(m pattern.Match, _ ...int) []graph.Element {
	return filterEdges(m.Graph(), func(e graph.Edge) bool { return c.types[e.Type] })
}

type equality struct{ eq bool }

// Equality matches (a, b) when both slots hold the same element (eq) or
// different elements (!eq). Only the equal form generates.
func Equality(eq bool) pattern.Constraint { return equality{eq: eq} }

func (equality) VarCount() int       { return 2 }
func (c equality) CanGenerate() bool { return c.eq }

func (c equality) Satisfies(m pattern.Match, ind ...int) bool {
	a, b := m.Get(ind[0]), m.Get(ind[1])
	if !a.IsBound() || !b.IsBound() {
		return false
	}
	return (a == b) == c.eq
}

func (c equality) Generate(m pattern.Match, ind ...int) []graph.Element {
	if !c.eq {
		return nil
	}
	a := m.Get(ind[0])
	if !a.IsBound() {
		return nil
	}
	return []graph.Element{a}
}

type membership struct{ down bool }

// Member matches (c, n) when n is a structural member of container c.
// It generates the members of c.
func Member() pattern.Constraint { return membership{down: true} }

// Container matches (n, c) when container c has n as a member.
// It generates the containers of n.
func Container() pattern.Constraint { return membership{down: false} }

func (membership) VarCount() int     { return 2 }
func (membership) CanGenerate() bool { return true }

func (c membership) related(g *graph.Graph, id graph.NodeID) []graph.NodeID {
	if c.down {
		return g.Members(id)
	}
	return g.Parents(id)
}

func (c membership) Satisfies(m pattern.Match, ind ...int) bool {
	a, ok := node(m, ind[0])
	if !ok {
		return false
	}
	b, ok := node(m, ind[1])
	if !ok {
		return false
	}
	for _, r := range c.related(m.Graph(), a) {
		if r == b {
			return true
		}
	}
	return false
}

func (c membership) Generate(m pattern.Match, ind ...int) []graph.Element {
	a, ok := node(m, ind[0])
	if !ok {
		return nil
	}
	return nodeElements(c.related(m.Graph(), a))
}
