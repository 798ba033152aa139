package constraint

import (
	"github.com/matzehuels/pathquery/pkg/graph"
	"github.com/matzehuels/pathquery/pkg/pattern"
)

// mapped re-targets a constraint onto a subset of a composite's slots.
type mapped struct {
	c   pattern.Constraint
	ind []int
}

// Map applies c to the slots ind of an enclosing composite. The resulting
// constraint reads max(ind)+1 slots; slot ind[j] of the composite becomes
// slot j of c.
//
//	// c0 -> c1 and c1 -> c2, checked together
//	constraint.And(
//	    constraint.Map(constraint.Successor(), 0, 1),
//	    constraint.Map(constraint.Successor(), 1, 2),
//	)
func Map(c pattern.Constraint, ind ...int) pattern.Constraint {
	if len(ind) != c.VarCount() {
		panic("constraint.Map: index count does not match the constraint's variable count")
	}
	for _, i := range ind {
		if i < 0 {
			panic("constraint.Map: negative index")
		}
	}
	return &mapped{c: c, ind: append([]int(nil), ind...)}
}

func (m *mapped) VarCount() int {
	n := 0
	for _, i := range m.ind {
		n = max(n, i+1)
	}
	return n
}

func (m *mapped) translate(ind []int) []int {
	out := make([]int, len(m.ind))
	for j, i := range m.ind {
		out[j] = ind[i]
	}
	return out
}

func (m *mapped) Satisfies(match pattern.Match, ind ...int) bool {
	return m.c.Satisfies(match, m.translate(ind)...)
}

// CanGenerate is true when the inner constraint generates and its last
// slot is the composite's last slot.
func (m *mapped) CanGenerate() bool {
	return m.c.CanGenerate() && m.ind[len(m.ind)-1] == m.VarCount()-1
}

func (m *mapped) Generate(match pattern.Match, ind ...int) []graph.Element {
	if !m.CanGenerate() {
		return nil
	}
	return m.c.Generate(match, m.translate(ind)...)
}

// generates reports whether c can produce candidates for slot n-1 of an
// n-slot composite.
func generates(c pattern.Constraint, n int) bool {
	return c.CanGenerate() && c.VarCount() == n
}

func varCount(children []pattern.Constraint) int {
	n := 0
	for _, c := range children {
		n = max(n, c.VarCount())
	}
	return n
}

// AndConstraint is the conjunction of its children.
type AndConstraint struct {
	children []pattern.Constraint
	n        int
}

// And returns the conjunction of children. Children reading fewer slots
// than the widest child apply to the leading slots; use [Map] to apply a
// child to other slots.
func And(children ...pattern.Constraint) *AndConstraint {
	return &AndConstraint{children: children, n: varCount(children)}
}

func (a *AndConstraint) VarCount() int { return a.n }

// Satisfies stops at the first failing child.
func (a *AndConstraint) Satisfies(m pattern.Match, ind ...int) bool {
	for _, c := range a.children {
		if !c.Satisfies(m, ind[:c.VarCount()]...) {
			return false
		}
	}
	return true
}

// CanGenerate reports whether at least one child generates the last slot.
func (a *AndConstraint) CanGenerate() bool {
	for _, c := range a.children {
		if generates(c, a.n) {
			return true
		}
	}
	return false
}

// Generate intersects the candidates of the generating children in
// declaration order, stopping as soon as the intersection is empty, and
// filters the survivors through the remaining children.
func (a *AndConstraint) Generate(m pattern.Match, ind ...int) []graph.Element {
	var (
		result  []graph.Element
		started bool
		filters []pattern.Constraint
	)
	for _, c := range a.children {
		if !generates(c, a.n) {
			filters = append(filters, c)
			continue
		}
		gen := c.Generate(m, ind...)
		if !started {
			result = gen
			started = true
		} else {
			result = intersect(result, gen)
		}
		if len(result) == 0 {
			return nil
		}
	}
	if !started || len(filters) == 0 {
		return result
	}

	last := ind[len(ind)-1]
	scratch := m.Clone()
	kept := result[:0:0]
	for _, e := range result {
		scratch.Set(last, e)
		ok := true
		for _, f := range filters {
			if !f.Satisfies(scratch, ind[:f.VarCount()]...) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, e)
		}
	}
	return kept
}

// OrConstraint is the disjunction of its children.
type OrConstraint struct {
	children []pattern.Constraint
	n        int
}

// Or returns the disjunction of children.
func Or(children ...pattern.Constraint) *OrConstraint {
	return &OrConstraint{children: children, n: varCount(children)}
}

func (o *OrConstraint) VarCount() int { return o.n }

func (o *OrConstraint) Satisfies(m pattern.Match, ind ...int) bool {
	for _, c := range o.children {
		if c.Satisfies(m, ind[:c.VarCount()]...) {
			return true
		}
	}
	return false
}

// CanGenerate requires every child to generate the last slot; otherwise
// candidates satisfying only a non-generating child would be missed.
func (o *OrConstraint) CanGenerate() bool {
	if len(o.children) == 0 {
		return false
	}
	for _, c := range o.children {
		if !generates(c, o.n) {
			return false
		}
	}
	return true
}

// Generate returns the union of the children's candidates, in child order
// with duplicates removed.
func (o *OrConstraint) Generate(m pattern.Match, ind ...int) []graph.Element {
	if !o.CanGenerate() {
		return nil
	}
	seen := make(map[graph.Element]bool)
	var result []graph.Element
	for _, c := range o.children {
		for _, e := range c.Generate(m, ind...) {
			if !seen[e] {
				seen[e] = true
				result = append(result, e)
			}
		}
	}
	return result
}

// NotConstraint negates its child. It never generates.
type NotConstraint struct {
	c pattern.Constraint
}

// Not returns the negation of c.
func Not(c pattern.Constraint) *NotConstraint { return &NotConstraint{c: c} }

func (n *NotConstraint) VarCount() int { return n.c.VarCount() }

func (n *NotConstraint) Satisfies(m pattern.Match, ind ...int) bool {
	return !n.c.Satisfies(m, ind...)
}

func (n *NotConstraint) CanGenerate() bool { return false }

func (n *NotConstraint) Generate(pattern.Match, ...int) []graph.Element { return nil }

// intersect keeps the elements of a that are also in b, in a's order.
func intersect(a, b []graph.Element) []graph.Element {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	in := make(map[graph.Element]struct{}, len(b))
	for _, e := range b {
		in[e] = struct{}{}
	}
	var out []graph.Element
	for _, e := range a {
		if _, ok := in[e]; ok {
			out = append(out, e)
		}
	}
	return out
}
