package pattern

import "github.com/matzehuels/pathquery/pkg/graph"

// Constraint is a predicate over a tuple of match slots that may also be
// able to enumerate candidates for its last slot.
//
// The ind arguments are positions into the match; len(ind) equals
// VarCount(). Implementations must be immutable and pure: neither
// Satisfies nor Generate may modify m, and Generate must return the same
// candidates for the same match, indices and graph.
type Constraint interface {
	// VarCount returns the number of slots the constraint reads.
	VarCount() int

	// Satisfies reports whether the elements at ind satisfy the constraint.
	// All slots at ind are expected to be bound; unbound or ill-kinded
	// slots do not satisfy any atomic constraint.
	Satisfies(m Match, ind ...int) bool

	// CanGenerate reports whether Generate may be used to enumerate
	// candidates for the last slot.
	CanGenerate() bool

	// Generate returns the duplicate-free candidates for slot ind[len(ind)-1]
	// given that all other slots at ind are bound. Every returned candidate
	// makes Satisfies true. Constraints that cannot generate return nil.
	Generate(m Match, ind ...int) []graph.Element
}
