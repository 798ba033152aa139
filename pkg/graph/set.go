package graph

import (
	"cmp"
	"slices"
)

// NodeSet is an unordered set of node handles.
type NodeSet map[NodeID]struct{}

// NewNodeSet returns a set holding ids.
func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was newly added.
func (s NodeSet) Add(id NodeID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports whether id is in the set.
func (s NodeSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of elements.
func (s NodeSet) Len() int { return len(s) }

// Clone returns a copy of the set.
func (s NodeSet) Clone() NodeSet {
	c := make(NodeSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Union returns a new set with the elements of s and o.
func (s NodeSet) Union(o NodeSet) NodeSet {
	u := s.Clone()
	for id := range o {
		u[id] = struct{}{}
	}
	return u
}

// Intersect returns a new set with the elements present in both s and o.
func (s NodeSet) Intersect(o NodeSet) NodeSet {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	r := make(NodeSet, len(small))
	for id := range small {
		if large.Has(id) {
			r[id] = struct{}{}
		}
	}
	return r
}

// ContainsAll reports whether every element of o is in s.
func (s NodeSet) ContainsAll(o NodeSet) bool {
	for id := range o {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Equal reports whether s and o hold the same elements.
func (s NodeSet) Equal(o NodeSet) bool {
	return len(s) == len(o) && s.ContainsAll(o)
}

// IDs returns the handles in ascending order.
func (s NodeSet) IDs() []NodeID {
	ids := make([]NodeID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Sorted returns the handles ordered by node key.
func (s NodeSet) Sorted(g *Graph) []NodeID {
	ids := s.IDs()
	slices.SortFunc(ids, func(a, b NodeID) int { return cmp.Compare(g.Key(a), g.Key(b)) })
	return ids
}

// Keys returns the node keys of the set in ascending order.
func (s NodeSet) Keys(g *Graph) []string {
	return g.Keys(s.Sorted(g))
}

// EdgeSet is an unordered set of edge handles.
type EdgeSet map[EdgeID]struct{}

// Add inserts id and reports whether it was newly added.
func (s EdgeSet) Add(id EdgeID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports whether id is in the set.
func (s EdgeSet) Has(id EdgeID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the handles in ascending order.
func (s EdgeSet) IDs() []EdgeID {
	ids := make([]EdgeID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Keys returns the edge keys in ascending order.
func (s EdgeSet) Keys(g *Graph) []string {
	keys := make([]string, 0, len(s))
	for id := range s {
		keys = append(keys, g.Edge(id).Key)
	}
	slices.Sort(keys)
	return keys
}

// Induced returns the edges of g whose endpoints both lie in nodes,
// in insertion order.
func (g *Graph) Induced(nodes NodeSet) []EdgeID {
	var result []EdgeID
	for _, e := range g.edges {
		if nodes.Has(e.Source) && nodes.Has(e.Target) {
			result = append(result, e.ID)
		}
	}
	return result
}
