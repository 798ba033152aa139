package pipeline

import (
	"slices"
	"strings"

	"github.com/matzehuels/pathquery/pkg/graph"
	"github.com/matzehuels/pathquery/pkg/network"
	"github.com/matzehuels/pathquery/pkg/query"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
)

// Query runs the query described by opts against n without caching,
// rendering or hooks. Requested keys that are not part of n are reported in
// Result.Missing; they never fail the query.
func Query(n *network.Network, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	g, err := n.Graph()
	if err != nil {
		return nil, pqerrors.Wrap(pqerrors.ErrCodeInvalidInput, err, "wrap network %q", n.Name)
	}

	q := &querier{g: g, n: n, opts: opts, res: &Result{Network: n.Name, Algorithm: opts.Algorithm}}
	if err := q.run(); err != nil {
		return nil, err
	}
	if len(q.res.Missing) > 0 {
		opts.Logger.Warn("keys not in network", "network", n.Name, "missing", q.res.Missing)
	}
	return q.res, nil
}

type querier struct {
	g    *graph.Graph
	n    *network.Network
	opts Options
	res  *Result

	requested graph.NodeSet
}

func (q *querier) run() error {
	dir, err := query.ParseDirection(q.opts.Direction)
	if err != nil {
		return err
	}
	var qopts []query.Option
	if len(q.opts.Exclude) > 0 {
		qopts = append(qopts, query.WithExcludeKeys(q.g, q.opts.Exclude...))
	}
	if q.opts.ExcludeUbiques {
		qopts = append(qopts, query.WithExclude(q.n.UbiqueFilter(q.g)))
	}

	q.requested = graph.NewNodeSet()
	var sources graph.NodeSet
	if q.opts.Algorithm != AlgorithmSearch {
		sources = q.resolve(q.opts.Sources)
	}

	var nodes graph.NodeSet
	var edges []graph.EdgeID
	switch q.opts.Algorithm {
	case AlgorithmNeighborhood:
		if nodes, err = query.Neighborhood(q.g, sources, q.opts.Limit, dir, qopts...); err != nil {
			return err
		}
	case AlgorithmCommon:
		if nodes, err = query.CommonStream(q.g, sources, q.opts.Limit, dir, qopts...); err != nil {
			return err
		}
	case AlgorithmPaths, AlgorithmBetween:
		pr, err := q.paths(sources, qopts)
		if err != nil {
			return err
		}
		nodes = pr.Nodes
		edges = pr.Edges.IDs()
		for _, p := range pr.Paths {
			q.res.Paths = append(q.res.Paths, Path{Nodes: q.g.Keys(p.Nodes), Sign: p.Sign.String()})
		}
	case AlgorithmSearch:
		if nodes, edges, err = q.search(); err != nil {
			return err
		}
	}

	if c := q.opts.CompletionPolicy(); c != nil {
		nodes = c.Complete(nodes, q.g)
	}
	// Traversal results show every interaction among their nodes; path and
	// pattern results keep only the edges they used.
	switch q.opts.Algorithm {
	case AlgorithmNeighborhood, AlgorithmCommon:
		edges = q.g.Induced(nodes)
	}
	q.fill(nodes, edges)
	return nil
}

// paths runs PathsOfInterest or PathsBetween. Sets that resolve to nothing
// yield an empty result instead of the empty-set parameter error, since
// the caller did name keys.
func (q *querier) paths(sources graph.NodeSet, qopts []query.Option) (*query.PathResult, error) {
	empty := &query.PathResult{Nodes: graph.NewNodeSet(), Edges: graph.EdgeSet{}}
	if q.opts.Algorithm == AlgorithmBetween {
		if sources.Len() == 0 {
			return empty, nil
		}
		return query.PathsBetween(q.g, sources, q.opts.Limit, qopts...)
	}
	targets := q.resolve(q.opts.Targets)
	if sources.Len() == 0 || targets.Len() == 0 {
		return empty, nil
	}
	return query.PathsOfInterest(q.g, sources, targets, q.opts.Limit, qopts...)
}

// search runs the pattern. With a single seed variable every source seeds
// its own search; otherwise the sources are the seed tuple. A source that
// is not in the graph is an invalid seed, never a Missing entry.
func (q *querier) search() (graph.NodeSet, []graph.EdgeID, error) {
	pf, err := pqio.ReadPattern(strings.NewReader(q.opts.Pattern))
	if err != nil {
		return nil, nil, err
	}
	p := pf.Pattern
	q.res.Labels = p.Labels()

	var seedSets [][]string
	switch {
	case p.SeedCount() == 0:
		if len(q.opts.Sources) > 0 {
			return nil, nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern,
				"pattern %q declares no seeds, got %d", pf.Name, len(q.opts.Sources))
		}
		seedSets = [][]string{nil}
	case len(q.opts.Sources) == 0:
		return nil, nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern,
			"pattern %q expects %d seeds, got none", pf.Name, p.SeedCount())
	case p.SeedCount() == 1:
		// Absent seeds fail in SearchKeys, as they do for seed tuples.
		for _, s := range q.opts.Sources {
			seedSets = append(seedSets, []string{s})
		}
	default:
		seedSets = [][]string{q.opts.Sources}
	}

	nodes := graph.NewNodeSet()
	edges := make(graph.EdgeSet)
	for _, seeds := range seedSets {
		seq, err := p.SearchKeys(q.g, seeds...)
		if err != nil {
			return nil, nil, err
		}
		for m := range seq {
			if len(q.res.Matches) >= q.opts.MaxMatches {
				q.res.Truncated = true
				break
			}
			q.res.Matches = append(q.res.Matches, m.Keys())
			for _, el := range m.Elements() {
				switch {
				case el.IsNode():
					nodes.Add(el.Node())
				case el.IsEdge():
					e := q.g.Edge(el.Edge())
					edges.Add(e.ID)
					nodes.Add(e.Source)
					nodes.Add(e.Target)
				}
			}
		}
		if q.res.Truncated {
			break
		}
	}
	for _, id := range q.g.Induced(nodes) {
		edges.Add(id)
	}
	for _, s := range q.opts.Sources {
		if id, ok := q.g.NodeByKey(s); ok {
			q.requested.Add(id)
		}
	}
	return nodes, edges.IDs(), nil
}

// resolve looks up node keys, marks them as requested and records the
// missing ones.
func (q *querier) resolve(keys []string) graph.NodeSet {
	ids, missing := q.g.Resolve(keys)
	for _, k := range missing {
		q.missing(k)
	}
	for _, id := range ids {
		q.requested.Add(id)
	}
	return graph.NewNodeSet(ids...)
}

func (q *querier) missing(key string) {
	if !slices.Contains(q.res.Missing, key) {
		q.res.Missing = append(q.res.Missing, key)
	}
}

func (q *querier) fill(nodes graph.NodeSet, edges []graph.EdgeID) {
	q.res.Nodes = make([]Node, 0, nodes.Len())
	for _, id := range nodes.Sorted(q.g) {
		node := Node{ID: q.g.Key(id), Query: q.requested.Has(id)}
		if e, ok := q.g.Object(id).(*network.Entity); ok {
			node.Name = e.Name
			node.Type = string(e.Type)
		}
		q.res.Nodes = append(q.res.Nodes, node)
	}

	q.res.Edges = make([]Edge, 0, len(edges))
	for _, id := range edges {
		e := q.g.Edge(id)
		q.res.Edges = append(q.res.Edges, Edge{
			Source: q.g.Key(e.Source),
			Target: q.g.Key(e.Target),
			Type:   e.Type,
			Sign:   e.Sign.String(),
		})
	}
	slices.SortFunc(q.res.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(a.Target, b.Target)
	})

	for _, id := range nodes.Sorted(q.g) {
		for _, m := range q.g.Members(id) {
			if nodes.Has(m) {
				q.res.Members = append(q.res.Members, Membership{Complex: q.g.Key(id), Member: q.g.Key(m)})
			}
		}
	}
	q.res.Stats.NodeCount = len(q.res.Nodes)
	q.res.Stats.EdgeCount = len(q.res.Edges)
}
