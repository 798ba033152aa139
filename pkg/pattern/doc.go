// Package pattern implements declarative structural search over a
// [graph.Graph].
//
// A [Pattern] declares typed variables (node or edge slots) and
// [Constraint]s over tuples of those variables. Searching a pattern
// enumerates every assignment of graph elements to variables that
// satisfies all constraints. Atomic and composite constraints live in the
// constraint subpackage; any type implementing [Constraint] can be used.
//
// # Building a Pattern
//
//	p, err := pattern.NewBuilder().
//	    Node("upstream", "Protein").
//	    Edge("rel", "").
//	    Node("downstream", "Protein").
//	    Add(constraint.Type("Protein"), "upstream").
//	    Add(constraint.OutEdge(), "upstream", "rel").
//	    Add(constraint.EdgeTarget(), "rel", "downstream").
//	    Add(constraint.EdgeSign(graph.Negative), "rel").
//	    Build()
//
// [Builder.Build] fixes the binding order once. Seeded variables come
// first; every other variable is bound by the first constraint, in
// declaration order, that can generate it from already-bound variables.
// A variable that cannot be bound is rejected at build time rather than
// silently producing no matches. Non-generating constraints are checked as
// soon as the last of their variables is bound, which prunes the search
// early.
//
// # Searching
//
//	seq, err := p.Search(g)
//	for m := range seq {
//	    fmt.Println(m.Keys())
//	}
//
// The sequence is lazy: matches are produced on demand and the search stops
// as soon as the loop exits. Every range over the sequence starts a fresh
// search with its own state, so a Pattern (and a sequence) can be reused
// and shared between goroutines.
package pattern
