// Package graph provides a directed, typed, signed graph view over an
// arbitrary domain object model.
//
// # Overview
//
// Query algorithms and pattern search never touch domain classes directly.
// Instead, a caller hands a set of domain objects and a relation selector to
// [Wrap], which builds a [Graph]: one node per object, one directed edge per
// relation between two wrapped objects. Every edge carries a [Sign]
// (+1 for activating or neutral relations, -1 for inhibitory ones) so that
// signed-path semantics can be evaluated by composing signs along a path.
//
// The domain model is consumed through narrow capability interfaces:
//
//   - [Object]: a stable key and an is-instance-of predicate
//   - [RelationSelector]: enumerates related objects with relation type and polarity
//   - [MembershipSelector]: parent/member relations of containers (complexes)
//   - [Attributed]: optional named attribute values for value constraints
//
// # Basic Usage
//
//	g, err := graph.Wrap(objects, selector)
//	if err != nil {
//	    return err
//	}
//	id, ok := g.NodeByKey("TP53")
//	for _, e := range g.Outgoing(id) {
//	    edge := g.Edge(e)
//	    fmt.Println(g.Key(edge.Target), edge.Sign)
//	}
//
// # Arena and Handles
//
// Nodes and edges live in slices owned by the Graph and are referred to by
// [NodeID] and [EdgeID] handles. Handles are only meaningful for the Graph
// that issued them. [Element] is a comparable handle to either a node or an
// edge and is what pattern matches bind.
//
// Adjacency lists keep insertion order, so iteration over a Graph is
// deterministic for a fixed input.
//
// # Identity
//
// A domain object maps to exactly one node per Graph. Identity is object
// identity: wrapping the same pointer twice reuses the node, while two
// distinct objects reporting the same key are rejected with
// [ErrDuplicateKey]. Edges are keyed by "sourceKey|targetKey"; adding an
// edge whose key already exists returns the existing edge.
//
// # Concurrency
//
// A Graph is built once and then only read. Concurrent readers are safe as
// long as nobody calls [Graph.AddNode], [Graph.AddEdge] or
// [Graph.AddMember] at the same time.
package graph
