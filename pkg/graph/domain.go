package graph

// Object is the capability a domain object must offer to become a node.
//
// Implementations must be comparable (typically pointer types): identity of
// the wrapped object decides whether two wrap calls refer to the same node.
type Object interface {
	// Key returns a stable identifier, unique among the objects of one Graph.
	Key() string
	// IsA reports whether the object is an instance of the named domain type,
	// taking the collaborator's type hierarchy into account.
	IsA(typ string) bool
}

// Attributed is implemented by objects that expose named attribute values.
// Value constraints use it; objects that do not implement it have no
// attributes.
type Attributed interface {
	Attr(name string) (any, bool)
}

// Relation is one outgoing relation reported by a [RelationSelector].
type Relation struct {
	Target     Object
	Type       string // e.g. "activation", "phosphorylation", "binding"
	Inhibitory bool   // negative polarity; the edge gets sign -1
}

// RelationSelector enumerates the directly related objects of a domain object.
type RelationSelector interface {
	Relations(o Object) []Relation
}

// RelationSelectorFunc adapts a function to the [RelationSelector] interface.
type RelationSelectorFunc func(o Object) []Relation

// Relations calls f(o).
func (f RelationSelectorFunc) Relations(o Object) []Relation { return f(o) }

// MembershipSelector enumerates the members of structural containers such
// as complexes. [Wrap] records membership when the relation selector also
// implements this interface.
type MembershipSelector interface {
	Members(o Object) []Object
}
