package pattern

import (
	"slices"
	"strings"

	"github.com/matzehuels/pathquery/pkg/graph"
)

// Match is a fixed-length sequence of graph elements, one slot per pattern
// variable in declaration order. Unbound slots hold the zero Element.
//
// A Match keeps a non-owning reference to the Graph its elements belong to,
// so constraints can inspect adjacency without a separate argument.
type Match struct {
	g   *graph.Graph
	els []graph.Element
}

// NewMatch returns a match over g with the given slot values.
// Use the zero Element for unbound slots.
func NewMatch(g *graph.Graph, els ...graph.Element) Match {
	return Match{g: g, els: slices.Clone(els)}
}

// Len returns the number of slots.
func (m Match) Len() int { return len(m.els) }

// Graph returns the graph the match's elements belong to.
func (m Match) Graph() *graph.Graph { return m.g }

// Get returns the element in slot i, or the zero Element when i is out of range.
func (m Match) Get(i int) graph.Element {
	if i < 0 || i >= len(m.els) {
		return graph.Element{}
	}
	return m.els[i]
}

// Node returns the node bound to slot i, or -1.
func (m Match) Node(i int) graph.NodeID { return m.Get(i).Node() }

// Edge returns the edge bound to slot i, or -1.
func (m Match) Edge(i int) graph.EdgeID { return m.Get(i).Edge() }

// Elements returns a copy of all slots.
func (m Match) Elements() []graph.Element { return slices.Clone(m.els) }

// Clone returns an independent copy.
func (m Match) Clone() Match { return Match{g: m.g, els: slices.Clone(m.els)} }

// Set binds slot i in place.
//
// A Match handed to a constraint is shared with the search that owns it;
// constraints that need a scratch binding must Set on a Clone.
func (m Match) Set(i int, e graph.Element) {
	if i >= 0 && i < len(m.els) {
		m.els[i] = e
	}
}

// Keys returns the node or edge key of every slot ("" for unbound slots).
func (m Match) Keys() []string {
	keys := make([]string, len(m.els))
	for i, e := range m.els {
		if m.g != nil {
			keys[i] = m.g.ElementKey(e)
		}
	}
	return keys
}

// Equal reports whether m and o bind the same elements.
func (m Match) Equal(o Match) bool { return slices.Equal(m.els, o.els) }

func (m Match) String() string {
	parts := m.Keys()
	for i, k := range parts {
		if k == "" {
			parts[i] = "_"
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
