package pattern_test

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"testing"

	"github.com/matzehuels/pathquery/pkg/graph"
	"github.com/matzehuels/pathquery/pkg/network"
	"github.com/matzehuels/pathquery/pkg/pattern"
	"github.com/matzehuels/pathquery/pkg/pattern/constraint"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// testNetwork builds a small signalling network:
//
//	EGFR -> GRB2 -> SOS1 -> KRAS -> BRAF, PTEN -| AKT1, KRAS -> PIK3CA -> AKT1
//	ATP -> EGFR, EGFR:GRB2 complex, CDKN1A gene expressed by AKT1
func testNetwork(t *testing.T) *graph.Graph {
	t.Helper()
	n := network.New("signalling")
	proteins := []string{"EGFR", "GRB2", "SOS1", "KRAS", "BRAF", "PTEN", "AKT1", "PIK3CA"}
	for _, p := range proteins {
		if _, err := n.AddEntity(network.Entity{ID: p, Type: network.TypeProtein}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []network.Entity{
		{ID: "ATP", Type: network.TypeSmallMolecule},
		{ID: "EGFR:GRB2", Type: network.TypeComplex},
		{ID: "CDKN1A", Type: network.TypeGene},
	} {
		if _, err := n.AddEntity(e); err != nil {
			t.Fatal(err)
		}
	}
	for _, l := range [][3]string{
		{"EGFR", network.Activation, "GRB2"},
		{"GRB2", network.Activation, "SOS1"},
		{"SOS1", network.Activation, "KRAS"},
		{"KRAS", network.Activation, "BRAF"},
		{"PTEN", network.Inhibition, "AKT1"},
		{"KRAS", network.Activation, "PIK3CA"},
		{"PIK3CA", network.Phosphorylation, "AKT1"},
		{"ATP", network.Phosphorylation, "EGFR"},
		{"AKT1", network.Expression, "CDKN1A"},
	} {
		if err := n.Link(l[0], l[1], l[2]); err != nil {
			t.Fatal(err)
		}
	}
	_ = n.AddMember("EGFR:GRB2", "EGFR")
	_ = n.AddMember("EGFR:GRB2", "GRB2")

	g, err := n.Graph()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func collect(t *testing.T, p *pattern.Pattern, g *graph.Graph, seeds ...graph.Element) []string {
	t.Helper()
	matches, err := p.SearchAll(g, seeds...)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.String()
	}
	return out
}

func TestProteinSuccessorPairs(t *testing.T) {
	g := testNetwork(t)
	p, err := pattern.NewBuilder().
		Node("x", "").
		Node("y", "").
		Add(constraint.Type("Protein"), "x").
		Add(constraint.Successor(), "x", "y").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := 0
	for _, id := range g.Nodes() {
		if g.IsA(id, "Protein") {
			want += len(g.Successors(id))
		}
	}
	got := collect(t, p, g)
	if len(got) != want {
		t.Errorf("got %d matches, want %d (protein, successor) pairs: %v", len(got), want, got)
	}
	if want != 8 {
		t.Errorf("fixture has %d pairs, expected 8", want)
	}
}

func TestBindingOrder(t *testing.T) {
	tests := []struct {
		name  string
		build func() *pattern.Builder
		want  []string
	}{
		{
			name: "DeclarationOrder",
			build: func() *pattern.Builder {
				return pattern.NewBuilder().
					Node("a", "").Node("b", "").
					Add(constraint.Type("Protein"), "a").
					Add(constraint.Successor(), "a", "b")
			},
			want: []string{"a", "b"},
		},
		{
			name: "GeneratorDeclaredLater",
			build: func() *pattern.Builder {
				return pattern.NewBuilder().
					Node("b", "").Node("a", "").
					Add(constraint.Successor(), "a", "b").
					Add(constraint.Type("Protein"), "a")
			},
			want: []string{"a", "b"},
		},
		{
			name: "SeedFirst",
			build: func() *pattern.Builder {
				return pattern.NewBuilder().
					Node("a", "").Node("b", "").
					Add(constraint.Predecessor(), "b", "a").
					Seed("b")
			},
			want: []string{"b", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build().Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got := p.Order(); !slices.Equal(got, tt.want) {
				t.Errorf("Order() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		b    *pattern.Builder
	}{
		{"NoVariables", pattern.NewBuilder()},
		{"Ungenerated", pattern.NewBuilder().Node("a", "").Node("b", "").
			Add(constraint.Type("Protein"), "a")},
		{"OnlyNegated", pattern.NewBuilder().Node("a", "").
			Add(constraint.Not(constraint.Type("Protein")), "a")},
		{"DuplicateLabel", pattern.NewBuilder().Node("a", "").Node("a", "")},
		{"UnknownLabel", pattern.NewBuilder().Node("a", "").
			Add(constraint.Successor(), "a", "zz")},
		{"VarCountMismatch", pattern.NewBuilder().Node("a", "").
			Add(constraint.Successor(), "a")},
		{"UnknownSeed", pattern.NewBuilder().Node("a", "").Seed("b")},
		{"EmptyLabel", pattern.NewBuilder().Node("", "")},
		{"SelfGenerated", pattern.NewBuilder().Node("a", "").
			Add(constraint.Successor(), "a", "a")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			if !pqerrors.Is(err, pqerrors.ErrCodeInvalidPattern) {
				t.Errorf("Build error = %v, want INVALID_PATTERN", err)
			}
		})
	}
}

func TestSearchSeeds(t *testing.T) {
	g := testNetwork(t)
	p, err := pattern.NewBuilder().
		Node("src", "Protein").
		Edge("rel", "").
		Node("dst", "").
		Seed("src").
		Add(constraint.OutEdge(), "src", "rel").
		Add(constraint.EdgeTarget(), "rel", "dst").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	kras, _ := g.NodeByKey("KRAS")
	got := collect(t, p, g, graph.NodeElement(kras))
	want := []string{"[KRAS KRAS|BRAF BRAF]", "[KRAS KRAS|PIK3CA PIK3CA]"}
	if !slices.Equal(got, want) {
		t.Errorf("matches = %v, want %v", got, want)
	}

	t.Run("SearchKeys", func(t *testing.T) {
		seq, err := p.SearchKeys(g, "KRAS")
		if err != nil {
			t.Fatal(err)
		}
		n := 0
		for range seq {
			n++
		}
		if n != 2 {
			t.Errorf("got %d matches, want 2", n)
		}
	})

	t.Run("InvalidSeeds", func(t *testing.T) {
		atp, _ := g.NodeByKey("ATP")
		edgeID, _ := g.EdgeByKey("KRAS|BRAF")
		cases := map[string][]graph.Element{
			"None":      nil,
			"TooMany":   {graph.NodeElement(kras), graph.NodeElement(kras)},
			"Foreign":   {graph.NodeElement(graph.NodeID(1000))},
			"WrongKind": {graph.EdgeElement(edgeID)},
			"WrongType": {graph.NodeElement(atp)},
			"Unbound":   {{}},
		}
		for name, seeds := range cases {
			if _, err := p.Search(g, seeds...); !pqerrors.Is(err, pqerrors.ErrCodeInvalidPattern) {
				t.Errorf("%s: Search error = %v, want INVALID_PATTERN", name, err)
			}
		}
		if _, err := p.SearchKeys(g, "NOPE"); !pqerrors.Is(err, pqerrors.ErrCodeInvalidPattern) {
			t.Errorf("absent key: error = %v", err)
		}
	})
}

func TestSearchNegativeFeedback(t *testing.T) {
	g := testNetwork(t)
	// proteins inhibiting a protein that is phosphorylated by a third protein
	p, err := pattern.NewBuilder().
		Node("inhibitor", "Protein").
		Edge("neg", "").
		Node("target", "Protein").
		Node("kinase", "Protein").
		Add(constraint.EdgeSign(graph.Negative), "neg").
		Add(constraint.EdgeSource(), "neg", "inhibitor").
		Add(constraint.EdgeTarget(), "neg", "target").
		Add(constraint.Predecessor(), "target", "kinase").
		Add(constraint.Equality(false), "inhibitor", "kinase").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := collect(t, p, g)
	if !slices.Equal(got, []string{"[PTEN PTEN|AKT1 AKT1 PIK3CA]"}) {
		t.Errorf("matches = %v", got)
	}
}

func TestSearchCompositeConstraint(t *testing.T) {
	g := testNetwork(t)
	// non-complex entities two steps downstream of EGFR
	twoStep := constraint.And(
		constraint.Map(constraint.Successor(), 0, 1),
		constraint.Map(constraint.Successor(), 1, 2),
	)
	p, err := pattern.NewBuilder().
		Node("a", "Protein").
		Node("mid", "").
		Node("b", "").
		Add(constraint.Attr("id", "EGFR"), "a").
		Add(constraint.Successor(), "a", "mid").
		Add(twoStep, "a", "mid", "b").
		Add(constraint.Not(constraint.Type("Complex")), "b").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := collect(t, p, g)
	if !slices.Equal(got, []string{"[EGFR GRB2 SOS1]"}) {
		t.Errorf("matches = %v", got)
	}
}

func TestSearchLazyAndRestartable(t *testing.T) {
	g := testNetwork(t)
	p, err := pattern.NewBuilder().
		Node("x", "").
		Add(constraint.AnyNode(), "x").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	seq, err := p.Search(g)
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("early break consumed %d matches", n)
	}

	first := collectSeq(seq)
	second := collectSeq(seq)
	if len(first) != g.NodeCount() || !slices.Equal(first, second) {
		t.Errorf("restarted search differs: %v vs %v", first, second)
	}
}

func collectSeq(seq func(func(pattern.Match) bool)) []string {
	var out []string
	for m := range seq {
		out = append(out, m.String())
	}
	return out
}

func TestSearchDeterministicConcurrent(t *testing.T) {
	g := testNetwork(t)
	p, err := pattern.NewBuilder().
		Node("a", "").Node("b", "").
		Add(constraint.Type("PhysicalEntity"), "a").
		Add(constraint.Neighbor(), "a", "b").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	want := collect(t, p, g)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ms, _ := p.SearchAll(g)
			for _, m := range ms {
				results[i] = append(results[i], m.String())
			}
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if !slices.Equal(r, want) {
			t.Errorf("goroutine %d: got %v", i, r)
		}
	}
}

func TestMatchesAreIndependent(t *testing.T) {
	g := testNetwork(t)
	p, _ := pattern.NewBuilder().
		Node("a", "Protein").Node("b", "").
		Add(constraint.Type("Protein"), "a").
		Add(constraint.Successor(), "a", "b").
		Build()
	ms, err := p.SearchAll(g)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, m := range ms {
		if m.Len() != p.VarCount() {
			t.Fatalf("match length %d, want %d", m.Len(), p.VarCount())
		}
		s := fmt.Sprint(m.Keys())
		if seen[s] {
			t.Errorf("duplicate match %s", s)
		}
		seen[s] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) != len(ms) {
		t.Errorf("matches share storage: %d distinct of %d", len(keys), len(ms))
	}
}
