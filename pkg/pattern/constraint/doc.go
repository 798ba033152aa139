// Package constraint provides the atomic and composite constraints used to
// build patterns.
//
// Atomic constraints test one structural, type or value property:
//
//	Type(t), AnyNode(), AnyEdge()           unary node/edge tests
//	Successor(), Predecessor(), Neighbor()  node-node adjacency
//	OutEdge(), InEdge()                     node-edge incidence
//	EdgeSource(), EdgeTarget()              edge-node endpoints
//	EdgeSign(s), EdgeType(types...)         edge properties
//	Equality(eq)                            same or different element
//	Member(), Container()                   complex membership
//	Attr(name, value)                       object attribute value
//	Reachable(limit, dir)                   bounded reachability
//
// Composites combine constraints over a shared slot tuple. [Map] moves a
// child onto other slots of the composite:
//
//	// a regulates b through an intermediate x, and a != b
//	c := constraint.And(
//	    constraint.Map(constraint.Successor(), 0, 1),
//	    constraint.Map(constraint.Successor(), 1, 2),
//	    constraint.Map(constraint.Equality(false), 0, 2),
//	)
//
// [And] generates when any child generates the last slot, [Or] only when
// every child does, and [Not] never generates.
package constraint
