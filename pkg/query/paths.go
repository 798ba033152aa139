package query

import (
	"slices"

	"github.com/matzehuels/pathquery/pkg/graph"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// Path is a simple directed path. Nodes has one more entry than Edges;
// a zero-length path holds a single node and no edges.
type Path struct {
	Nodes []graph.NodeID
	Edges []graph.EdgeID
	// Sign is the composition of the edge signs: Negative when the path
	// carries an odd number of inhibitory edges.
	Sign graph.Sign
}

// Len returns the number of edges on the path.
func (p Path) Len() int { return len(p.Edges) }

// PathResult is the union of the paths found by a path query.
type PathResult struct {
	Nodes graph.NodeSet
	Edges graph.EdgeSet
	Paths []Path
}

// PathsOfInterest returns every simple directed path of at most limit edges
// that starts at a source and ends at a target.
//
// A forward search from the sources bounds a backward search from the
// targets, and the two meet on the nodes whose forward plus backward
// distance fits the limit. Paths are then enumerated depth-first over those
// nodes only, each step checking the remaining budget against the node's
// backward distance. A node that is both
// a source and a target contributes a zero-length path.
//
// Empty source or target sets are an ErrCodeInvalidParameter error, as is
// a negative limit. Sources and targets absent from g contribute nothing.
func PathsOfInterest(g *graph.Graph, sources, targets graph.NodeSet, limit int, opts ...Option) (*PathResult, error) {
	if err := validate(limit, Downstream); err != nil {
		return nil, err
	}
	if sources.Len() == 0 {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidParameter, "source set cannot be empty")
	}
	if targets.Len() == 0 {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidParameter, "target set cannot be empty")
	}
	return findPaths(g, sources, targets, limit, newConfig(opts), true), nil
}

// PathsBetween returns every non-trivial simple directed path of at most
// limit edges that starts and ends in nodes, i.e. the paths connecting the
// members of a single gene set to each other.
func PathsBetween(g *graph.Graph, nodes graph.NodeSet, limit int, opts ...Option) (*PathResult, error) {
	if err := validate(limit, Downstream); err != nil {
		return nil, err
	}
	if nodes.Len() == 0 {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidParameter, "node set cannot be empty")
	}
	return findPaths(g, nodes, nodes, limit, newConfig(opts), false), nil
}

func findPaths(g *graph.Graph, sources, targets graph.NodeSet, limit int, cfg config, trivial bool) *PathResult {
	endpoints := sources.Union(targets)
	admit := func(id graph.NodeID) admission {
		if !cfg.excluded(id) {
			return expand
		}
		if endpoints.Has(id) {
			return leaf
		}
		return skip
	}
	bwd := frontiers(g, sources, targets, limit, admit)

	res := &PathResult{Nodes: graph.NewNodeSet(), Edges: make(graph.EdgeSet)}
	f := &pathFinder{
		g:       g,
		targets: targets,
		bwd:     bwd,
		limit:   limit,
		cfg:     cfg,
		res:     res,
		onPath:  graph.NewNodeSet(),
	}
	for _, s := range sources.IDs() {
		if _, ok := bwd[s]; !ok {
			continue
		}
		if trivial && targets.Has(s) {
			f.record([]graph.NodeID{s}, nil)
		}
		f.walk(s, []graph.NodeID{s}, nil)
	}
	return res
}

// frontiers searches forward from the sources, then backward from the
// targets without leaving the nodes the forward search reached. It returns
// the backward distance of every node that can lie on a path of at most
// limit edges: reached from both sides with df+db <= limit.
func frontiers(g *graph.Graph, sources, targets graph.NodeSet, limit int, admit func(graph.NodeID) admission) map[graph.NodeID]int {
	fwd := bfs(g, sources, limit, Downstream, admit)
	bwd := bfs(g, targets, limit, Upstream, func(id graph.NodeID) admission {
		if _, ok := fwd[id]; !ok {
			return skip
		}
		return admit(id)
	})
	for n, db := range bwd {
		if df, ok := fwd[n]; !ok || df+db > limit {
			delete(bwd, n)
		}
	}
	return bwd
}

type pathFinder struct {
	g       *graph.Graph
	targets graph.NodeSet
	bwd     map[graph.NodeID]int
	limit   int
	cfg     config
	res     *PathResult
	onPath  graph.NodeSet
}

// walk extends the path ending at n. Only nodes whose backward distance
// still fits into the remaining budget are visited; excluded nodes may end
// a path when they are targets but are never passed through.
func (f *pathFinder) walk(n graph.NodeID, nodes []graph.NodeID, edges []graph.EdgeID) {
	f.onPath.Add(n)
	defer delete(f.onPath, n)

	if len(nodes) > 1 && f.cfg.excluded(n) {
		return
	}
	depth := len(edges)
	for _, e := range f.g.Outgoing(n) {
		m := f.g.Edge(e).Target
		if f.onPath.Has(m) {
			continue
		}
		db, ok := f.bwd[m]
		if !ok || depth+1+db > f.limit {
			continue
		}
		nextNodes := append(slices.Clip(nodes), m)
		nextEdges := append(slices.Clip(edges), e)
		if f.targets.Has(m) {
			f.record(nextNodes, nextEdges)
		}
		f.walk(m, nextNodes, nextEdges)
	}
}

func (f *pathFinder) record(nodes []graph.NodeID, edges []graph.EdgeID) {
	p := Path{
		Nodes: slices.Clone(nodes),
		Edges: slices.Clone(edges),
		Sign:  graph.PathSign(f.g, edges),
	}
	for _, n := range p.Nodes {
		f.res.Nodes.Add(n)
	}
	for _, e := range p.Edges {
		f.res.Edges.Add(e)
	}
	f.res.Paths = append(f.res.Paths, p)
}
