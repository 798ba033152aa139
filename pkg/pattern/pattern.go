package pattern

import (
	"maps"
	"slices"

	"github.com/matzehuels/pathquery/pkg/graph"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// Var declares one pattern variable.
type Var struct {
	Label string
	Kind  graph.ElementKind
	// Type restricts the bound element: for nodes the wrapped object must be
	// an instance of Type, for edges the relation type must equal it.
	// Empty means unrestricted.
	Type string
}

type decl struct {
	c   Constraint
	ind []int
}

// Builder assembles a Pattern. Builder methods record the first error
// encountered; Build reports it.
//
//	p, err := pattern.NewBuilder().
//	    Node("a", "Protein").
//	    Node("b", "").
//	    Add(constraint.Type("Protein"), "a").
//	    Add(constraint.Successor(), "a", "b").
//	    Build()
type Builder struct {
	vars  []Var
	index map[string]int
	seeds []int
	decls []decl
	err   error
}

// NewBuilder returns an empty pattern builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = pqerrors.New(pqerrors.ErrCodeInvalidPattern, format, args...)
	}
	return b
}

// Var declares a variable. Labels must be unique and non-empty.
func (b *Builder) Var(label string, kind graph.ElementKind, typ string) *Builder {
	if label == "" {
		return b.fail("variable label cannot be empty")
	}
	if kind != graph.KindNode && kind != graph.KindEdge {
		return b.fail("variable %q: kind must be node or edge", label)
	}
	if _, dup := b.index[label]; dup {
		return b.fail("duplicate variable label %q", label)
	}
	b.index[label] = len(b.vars)
	b.vars = append(b.vars, Var{Label: label, Kind: kind, Type: typ})
	return b
}

// Node declares a node variable whose object must be an instance of typ.
func (b *Builder) Node(label, typ string) *Builder { return b.Var(label, graph.KindNode, typ) }

// Edge declares an edge variable whose relation type must equal typ.
func (b *Builder) Edge(label, typ string) *Builder { return b.Var(label, graph.KindEdge, typ) }

// Seed marks a variable as bound by the caller. Seeds are supplied to
// Search in the order Seed was called.
func (b *Builder) Seed(label string) *Builder {
	i, ok := b.index[label]
	if !ok {
		return b.fail("seed: unknown variable %q", label)
	}
	if slices.Contains(b.seeds, i) {
		return b.fail("variable %q seeded twice", label)
	}
	b.seeds = append(b.seeds, i)
	return b
}

// Add declares a constraint over the labeled variables. The number of
// labels must equal c.VarCount(); the last label is the one the
// constraint can generate.
func (b *Builder) Add(c Constraint, labels ...string) *Builder {
	if c == nil {
		return b.fail("constraint cannot be nil")
	}
	if c.VarCount() < 1 {
		return b.fail("constraint %T reads no variables", c)
	}
	if len(labels) != c.VarCount() {
		return b.fail("constraint %T reads %d variables, got %d labels", c, c.VarCount(), len(labels))
	}
	ind := make([]int, len(labels))
	for j, l := range labels {
		i, ok := b.index[l]
		if !ok {
			return b.fail("constraint %T: unknown variable %q", c, l)
		}
		ind[j] = i
	}
	b.decls = append(b.decls, decl{c: c, ind: ind})
	return b
}

// Build validates the declarations and computes the binding order.
//
// Seeds are bound first. The remaining variables are ordered by repeatedly
// scanning the constraints in declaration order and picking the first
// generative constraint whose last variable is unordered and whose other
// variables are already ordered. A variable that ends up with neither a
// seed nor a generator makes the pattern unsearchable.
func (b *Builder) Build() (*Pattern, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.vars) == 0 {
		return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern, "pattern declares no variables")
	}

	n := len(b.vars)
	ordered := make([]bool, n)
	gen := make([]int, n)
	for i := range gen {
		gen[i] = -1
	}
	order := slices.Clone(b.seeds)
	for _, s := range order {
		ordered[s] = true
	}

	for len(order) < n {
		picked := false
		for ci, d := range b.decls {
			if !d.c.CanGenerate() {
				continue
			}
			last := d.ind[len(d.ind)-1]
			if ordered[last] || !allOrdered(ordered, d.ind[:len(d.ind)-1], last) {
				continue
			}
			ordered[last] = true
			gen[last] = ci
			order = append(order, last)
			picked = true
			break
		}
		if !picked {
			break
		}
	}
	if len(order) < n {
		for i, v := range b.vars {
			if !ordered[i] {
				return nil, pqerrors.New(pqerrors.ErrCodeInvalidPattern,
					"variable %q has no seed and no generating constraint", v.Label)
			}
		}
	}

	pos := make([]int, n)
	for step, v := range order {
		pos[v] = step
	}
	checks := make([][]int, n)
	for ci, d := range b.decls {
		step := 0
		for _, v := range d.ind {
			step = max(step, pos[v])
		}
		if gen[order[step]] == ci {
			continue
		}
		checks[step] = append(checks[step], ci)
	}

	return &Pattern{
		vars:   slices.Clone(b.vars),
		index:  maps.Clone(b.index),
		nSeeds: len(b.seeds),
		decls:  slices.Clone(b.decls),
		order:  slices.Clone(order),
		gen:    gen,
		checks: checks,
	}, nil
}

// allOrdered reports whether every index in ind, other than self, is ordered.
// A constraint whose non-last labels repeat the last one is not usable as a
// generator for it.
func allOrdered(ordered []bool, ind []int, self int) bool {
	for _, i := range ind {
		if i == self || !ordered[i] {
			return false
		}
	}
	return true
}

// Pattern is an immutable, reusable structural query. It is safe to search
// one Pattern from multiple goroutines.
type Pattern struct {
	vars   []Var
	index  map[string]int
	nSeeds int
	decls  []decl
	order  []int   // binding order; the first nSeeds entries are the seeds
	gen    []int   // generating declaration per variable, -1 for seeds
	checks [][]int // declarations evaluated when order[step] is bound
}

// VarCount returns the number of variables, which is the length of every Match.
func (p *Pattern) VarCount() int { return len(p.vars) }

// SeedCount returns how many seeds Search expects.
func (p *Pattern) SeedCount() int { return p.nSeeds }

// Vars returns the variable declarations in declaration order.
func (p *Pattern) Vars() []Var { return slices.Clone(p.vars) }

// Labels returns the variable labels in declaration order.
func (p *Pattern) Labels() []string {
	labels := make([]string, len(p.vars))
	for i, v := range p.vars {
		labels[i] = v.Label
	}
	return labels
}

// Index returns the match slot of the labeled variable.
func (p *Pattern) Index(label string) (int, bool) {
	i, ok := p.index[label]
	return i, ok
}

// Order returns the variable labels in binding order.
func (p *Pattern) Order() []string {
	labels := make([]string, len(p.order))
	for i, v := range p.order {
		labels[i] = p.vars[v].Label
	}
	return labels
}
