package pattern

import (
	"iter"
	"strings"

	"github.com/matzehuels/pathquery/pkg/graph"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// Search returns the matches of p in g.
//
// seeds bind the seeded variables in the order they were declared with
// [Builder.Seed]. Seeds are checked before the sequence is returned: a
// wrong count, an element foreign to g, or an element of the wrong kind or
// type is an ErrCodeInvalidPattern error.
//
// The returned sequence is lazy and restartable. Each range over it runs an
// independent depth-first search in binding order and yields a fresh Match
// per complete binding; breaking out of the loop stops the search. For a
// fixed graph and pattern the sequence is deterministic.
func (p *Pattern) Search(g *graph.Graph, seeds ...graph.Element) (iter.Seq[Match], error) {
	if g == nil {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern, "search graph cannot be nil")
	}
	if len(seeds) != p.nSeeds {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern,
			"pattern expects %d seeds, got %d", p.nSeeds, len(seeds))
	}
	for i, s := range seeds {
		v := p.vars[p.order[i]]
		if !g.Contains(s) {
			return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern, "seed %q is not an element of the graph", v.Label)
		}
		if !p.admits(g, p.order[i], s) {
			return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern,
				"seed %q: %s %q does not satisfy the declared %s %q",
				v.Label, s.Kind(), g.ElementKey(s), v.Kind, v.Type)
		}
	}
	seeds = append([]graph.Element(nil), seeds...)

	return func(yield func(Match) bool) {
		s := &searcher{p: p, seeds: seeds, m: Match{g: g, els: make([]graph.Element, len(p.vars))}, yield: yield}
		s.step(0)
	}, nil
}

// SearchKeys is like Search but takes seed keys. Keys containing "|" are
// looked up as edge keys, all others as node keys. An absent key is an
// ErrCodeInvalidPattern error.
func (p *Pattern) SearchKeys(g *graph.Graph, keys ...string) (iter.Seq[Match], error) {
	if g == nil {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern, "search graph cannot be nil")
	}
	seeds := make([]graph.Element, len(keys))
	for i, k := range keys {
		if strings.Contains(k, "|") {
			id, ok := g.EdgeByKey(k)
			if !ok {
				return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern, "seed edge %q not found", k)
			}
			seeds[i] = graph.EdgeElement(id)
			continue
		}
		id, ok := g.NodeByKey(k)
		if !ok {
			return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern, "seed node %q not found", k)
		}
		seeds[i] = graph.NodeElement(id)
	}
	return p.Search(g, seeds...)
}

// SearchAll collects every match of p in g.
func (p *Pattern) SearchAll(g *graph.Graph, seeds ...graph.Element) ([]Match, error) {
	seq, err := p.Search(g, seeds...)
	if err != nil {
		return nil, err
	}
	var result []Match
	for m := range seq {
		result = append(result, m)
	}
	return result, nil
}

// admits checks the declared kind and type of variable v against e.
func (p *Pattern) admits(g *graph.Graph, v int, e graph.Element) bool {
	want := p.vars[v]
	if e.Kind() != want.Kind {
		return false
	}
	if want.Type == "" {
		return true
	}
	if e.IsNode() {
		return g.IsA(e.Node(), want.Type)
	}
	return g.Edge(e.Edge()).Type == want.Type
}

type searcher struct {
	p     *Pattern
	seeds []graph.Element
	m     Match
	yield func(Match) bool
}

// step binds the variable at position i of the binding order and recurses.
// It returns false once the consumer has stopped.
func (s *searcher) step(i int) bool {
	p := s.p
	if i == len(p.order) {
		return s.yield(s.m.Clone())
	}
	v := p.order[i]

	var candidates []graph.Element
	if i < len(s.seeds) {
		candidates = s.seeds[i : i+1]
	} else {
		d := p.decls[p.gen[v]]
		candidates = d.c.Generate(s.m, d.ind...)
	}

	for _, e := range candidates {
		if i >= len(s.seeds) && !p.admits(s.m.g, v, e) {
			continue
		}
		s.m.els[v] = e
		if s.satisfied(i) && !s.step(i+1) {
			s.m.els[v] = graph.Element{}
			return false
		}
	}
	s.m.els[v] = graph.Element{}
	return true
}

func (s *searcher) satisfied(i int) bool {
	for _, ci := range s.p.checks[i] {
		d := s.p.decls[ci]
		if !d.c.Satisfies(s.m, d.ind...) {
			return false
		}
	}
	return true
}
