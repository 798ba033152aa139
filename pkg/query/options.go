package query

import "github.com/matzehuels/pathquery/pkg/graph"

// Option configures a traversal.
type Option func(*config)

type config struct {
	exclude func(graph.NodeID) bool
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) excluded(id graph.NodeID) bool {
	return c.exclude != nil && c.exclude(id)
}

// WithExclude keeps traversals from passing through nodes for which pred
// returns true. Excluded nodes are only ever part of a result as a source
// or target. Typical use is filtering ubiquitous small molecules (ATP,
// water) that would otherwise connect everything to everything.
func WithExclude(pred func(graph.NodeID) bool) Option {
	return func(c *config) {
		prev := c.exclude
		if prev == nil {
			c.exclude = pred
			return
		}
		c.exclude = func(id graph.NodeID) bool { return prev(id) || pred(id) }
	}
}

// WithExcludeKeys excludes the nodes of g with the given keys.
// Keys not present in g are ignored.
func WithExcludeKeys(g *graph.Graph, keys ...string) Option {
	ids, _ := g.Resolve(keys)
	set := graph.NewNodeSet(ids...)
	return WithExclude(set.Has)
}
