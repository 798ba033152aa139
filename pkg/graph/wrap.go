package graph

import "fmt"

// WrapOption configures [Wrap].
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	types map[string]bool
}

// WithRelationTypes restricts the relation types that become edges.
// Without this option every relation reported by the selector is kept.
func WithRelationTypes(types ...string) WrapOption {
	return func(c *wrapConfig) {
		if c.types == nil {
			c.types = make(map[string]bool, len(types))
		}
		for _, t := range types {
			c.types[t] = true
		}
	}
}

// Wrap builds a Graph over the given domain objects.
//
// Every object becomes one node (objects listed twice are wrapped once).
// Every relation the selector reports between two wrapped objects becomes a
// directed edge with sign -1 if the relation is inhibitory and +1 otherwise.
// Relations to objects outside the input are skipped. When sel also
// implements [MembershipSelector], container membership between wrapped
// objects is recorded as well.
func Wrap(objects []Object, sel RelationSelector, opts ...WrapOption) (*Graph, error) {
	var cfg wrapConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g := New()
	for _, o := range objects {
		if _, err := g.AddNode(o); err != nil {
			if o == nil {
				return nil, err
			}
			return nil, fmt.Errorf("wrap %q: %w", o.Key(), err)
		}
	}
	if sel == nil {
		return g, nil
	}

	n := g.NodeCount()
	for i := range n {
		src := NodeID(i)
		for _, rel := range sel.Relations(g.nodes[src].obj) {
			if cfg.types != nil && !cfg.types[rel.Type] {
				continue
			}
			dst, ok := g.NodeOf(rel.Target)
			if !ok {
				continue
			}
			if _, err := g.AddEdge(src, dst, SignOf(rel.Inhibitory), rel.Type); err != nil {
				return nil, fmt.Errorf("wrap relation %s: %w", EdgeKey(g.Key(src), g.Key(dst)), err)
			}
		}
	}

	if ms, ok := sel.(MembershipSelector); ok {
		for i := range n {
			parent := NodeID(i)
			for _, m := range ms.Members(g.nodes[parent].obj) {
				member, ok := g.NodeOf(m)
				if !ok || member == parent {
					continue
				}
				if err := g.AddMember(parent, member); err != nil {
					return nil, fmt.Errorf("wrap member of %q: %w", g.Key(parent), err)
				}
			}
		}
	}
	return g, nil
}
