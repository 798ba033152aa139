package query

import (
	"github.com/matzehuels/pathquery/pkg/graph"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// admission decides how a traversal treats a node it reaches.
type admission int

const (
	skip   admission = iota // never entered
	leaf                    // entered, not expanded
	expand                  // entered and expanded
)

// bfs computes hop distances from sources within limit following dir.
// Sources absent from g are ignored; sources are always expanded.
func bfs(g *graph.Graph, sources graph.NodeSet, limit int, dir Direction, admit func(graph.NodeID) admission) map[graph.NodeID]int {
	dist := make(map[graph.NodeID]int, len(sources))
	var queue []graph.NodeID
	for _, s := range sources.IDs() {
		if g.HasNode(s) {
			dist[s] = 0
			queue = append(queue, s)
		}
	}

	for head := 0; head < len(queue); head++ {
		n := queue[head]
		d := dist[n]
		if d >= limit {
			continue
		}
		for _, m := range Step(g, n, dir) {
			if _, seen := dist[m]; seen {
				continue
			}
			switch admit(m) {
			case skip:
				continue
			case leaf:
				dist[m] = d + 1
			case expand:
				dist[m] = d + 1
				queue = append(queue, m)
			}
		}
	}
	return dist
}

func validate(limit int, dir Direction) error {
	if limit < 0 {
		return pqerrors.New(pqerrors.ErrCodeInvalidParameter, "limit must be >= 0, got %d", limit)
	}
	if !dir.Valid() {
		return pqerrors.New(pqerrors.ErrCodeInvalidParameter, "invalid direction %d", int(dir))
	}
	return nil
}

// Distances returns the hop distance of every node within limit hops of
// sources following dir. Sources have distance 0.
func Distances(g *graph.Graph, sources graph.NodeSet, limit int, dir Direction, opts ...Option) (map[graph.NodeID]int, error) {
	if err := validate(limit, dir); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return bfs(g, sources, limit, dir, func(id graph.NodeID) admission {
		if cfg.excluded(id) {
			return skip
		}
		return expand
	}), nil
}

// Neighborhood returns every node reachable from sources within limit hops
// following dir, sources included.
//
// A limit of 0 returns the sources. Sources that are not nodes of g
// contribute nothing, so an empty or foreign source set yields an empty
// result. A negative limit is an ErrCodeInvalidParameter error.
func Neighborhood(g *graph.Graph, sources graph.NodeSet, limit int, dir Direction, opts ...Option) (graph.NodeSet, error) {
	dist, err := Distances(g, sources, limit, dir, opts...)
	if err != nil {
		return nil, err
	}
	return setOf(dist), nil
}

// CommonStream returns the nodes within limit hops of every source, i.e.
// the intersection of the single-source neighborhoods. Shared upstream
// regulators or shared downstream targets of a gene set are found this way.
// An empty source set yields an empty result.
func CommonStream(g *graph.Graph, sources graph.NodeSet, limit int, dir Direction, opts ...Option) (graph.NodeSet, error) {
	if err := validate(limit, dir); err != nil {
		return nil, err
	}
	var common graph.NodeSet
	for _, s := range sources.IDs() {
		n, err := Neighborhood(g, graph.NewNodeSet(s), limit, dir, opts...)
		if err != nil {
			return nil, err
		}
		if common == nil {
			common = n
		} else {
			common = common.Intersect(n)
		}
		if common.Len() == 0 {
			break
		}
	}
	if common == nil {
		return graph.NewNodeSet(), nil
	}
	return common, nil
}

// NeighborOfNeighbor returns the two-hop neighborhood of sources with the
// hop distance of each node. Excluded nodes are reported when they are
// direct neighbors or second neighbors, but the second hop is only taken
// from first neighbors that are not excluded.
func NeighborOfNeighbor(g *graph.Graph, sources graph.NodeSet, dir Direction, opts ...Option) (map[graph.NodeID]int, error) {
	if err := validate(2, dir); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return bfs(g, sources, 2, dir, func(id graph.NodeID) admission {
		if cfg.excluded(id) {
			return leaf
		}
		return expand
	}), nil
}

// Layers groups a distance map by hop count: Layers(d)[k] holds the nodes
// at distance k in ascending handle order.
func Layers(dist map[graph.NodeID]int) [][]graph.NodeID {
	maxDist := -1
	for _, d := range dist {
		maxDist = max(maxDist, d)
	}
	layers := make([][]graph.NodeID, maxDist+1)
	for _, id := range setOf(dist).IDs() {
		d := dist[id]
		layers[d] = append(layers[d], id)
	}
	return layers
}

func setOf(dist map[graph.NodeID]int) graph.NodeSet {
	s := make(graph.NodeSet, len(dist))
	for id := range dist {
		s[id] = struct{}{}
	}
	return s
}
