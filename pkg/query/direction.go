package query

import (
	"strings"

	"github.com/matzehuels/pathquery/pkg/graph"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// Direction selects which edges a traversal follows.
type Direction int

const (
	// Downstream follows edges from source to target.
	Downstream Direction = iota
	// Upstream follows edges backwards, from target to source.
	Upstream
	// Bothstream follows edges in either direction.
	Bothstream
)

func (d Direction) String() string {
	switch d {
	case Downstream:
		return "downstream"
	case Upstream:
		return "upstream"
	case Bothstream:
		return "bothstream"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the defined directions.
func (d Direction) Valid() bool { return d >= Downstream && d <= Bothstream }

// Reverse swaps upstream and downstream. Bothstream is its own reverse.
func (d Direction) Reverse() Direction {
	switch d {
	case Downstream:
		return Upstream
	case Upstream:
		return Downstream
	}
	return d
}

// ParseDirection parses a direction name. Matching is case-insensitive and
// accepts "both" as a short form of "bothstream".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "downstream", "down":
		return Downstream, nil
	case "upstream", "up":
		return Upstream, nil
	case "bothstream", "both":
		return Bothstream, nil
	}
	return 0, pqerrors.New(pqerrors.ErrCodeInvalidParameter,
		"unknown direction %q (want upstream, downstream or bothstream)", s)
}

// Step returns the nodes one hop away from id in direction d, in adjacency
// order. For Bothstream successors come before predecessors; a node linked
// both ways appears twice.
func Step(g *graph.Graph, id graph.NodeID, d Direction) []graph.NodeID {
	switch d {
	case Downstream:
		return g.Successors(id)
	case Upstream:
		return g.Predecessors(id)
	default:
		return append(g.Successors(id), g.Predecessors(id)...)
	}
}
