package graph

import (
	"errors"
	"reflect"
	"slices"
)

var (
	// ErrNilObject is returned by [Graph.AddNode] when the object is nil.
	ErrNilObject = errors.New("object must not be nil")

	// ErrIncomparableObject is returned by [Graph.AddNode] when the object's
	// dynamic type cannot be used for identity lookups (slices, maps, funcs).
	ErrIncomparableObject = errors.New("object type is not comparable")

	// ErrInvalidKey is returned by [Graph.AddNode] when the object's key is empty.
	ErrInvalidKey = errors.New("object key must not be empty")

	// ErrDuplicateKey is returned by [Graph.AddNode] when a different object
	// with the same key is already part of the graph.
	ErrDuplicateKey = errors.New("duplicate object key")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// handle does not belong to this graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// handle does not belong to this graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidSign is returned by [Graph.AddEdge] for signs other than +1 and -1.
	ErrInvalidSign = errors.New("edge sign must be +1 or -1")

	// ErrUnknownNode is returned by [Graph.AddMember] for foreign handles.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfMembership is returned by [Graph.AddMember] when a node would
	// become a member of itself.
	ErrSelfMembership = errors.New("node cannot be a member of itself")
)

// NodeID is a handle to a node of one Graph.
type NodeID int

// EdgeID is a handle to an edge of one Graph.
type EdgeID int

// Edge is a directed, signed relation between two nodes of the same Graph.
// Edge values returned by [Graph.Edge] are copies.
type Edge struct {
	ID     EdgeID
	Key    string // "sourceKey|targetKey"
	Source NodeID
	Target NodeID
	Sign   Sign
	Type   string // relation type reported by the collaborator (may be empty)
}

type node struct {
	key     string
	obj     Object
	out     []EdgeID
	in      []EdgeID
	members []NodeID
	parents []NodeID
}

// Graph owns the nodes and edges derived from one query session.
//
// The zero value is not usable - use [New] or [Wrap].
type Graph struct {
	nodes     []node
	edges     []Edge
	byKey     map[string]NodeID
	byObj     map[Object]NodeID
	edgeByKey map[string]EdgeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		byKey:     make(map[string]NodeID),
		byObj:     make(map[Object]NodeID),
		edgeByKey: make(map[string]EdgeID),
	}
}

// AddNode wraps a domain object as a node and returns its handle.
// Adding an object that is already wrapped returns the existing handle.
func (g *Graph) AddNode(o Object) (NodeID, error) {
	if o == nil {
		return -1, ErrNilObject
	}
	if !reflect.TypeOf(o).Comparable() {
		return -1, ErrIncomparableObject
	}
	if id, ok := g.byObj[o]; ok {
		return id, nil
	}
	key := o.Key()
	if key == "" {
		return -1, ErrInvalidKey
	}
	if _, exists := g.byKey[key]; exists {
		return -1, ErrDuplicateKey
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{key: key, obj: o})
	g.byKey[key] = id
	g.byObj[o] = id
	return id, nil
}

// AddEdge adds a directed edge between two nodes of this graph.
// Creating an edge whose key already exists returns the existing edge, so
// repeated calls are idempotent; the first sign and type win.
func (g *Graph) AddEdge(src, dst NodeID, sign Sign, typ string) (EdgeID, error) {
	if !g.HasNode(src) {
		return -1, ErrUnknownSourceNode
	}
	if !g.HasNode(dst) {
		return -1, ErrUnknownTargetNode
	}
	if !sign.Valid() {
		return -1, ErrInvalidSign
	}
	key := EdgeKey(g.nodes[src].key, g.nodes[dst].key)
	if id, ok := g.edgeByKey[key]; ok {
		return id, nil
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{ID: id, Key: key, Source: src, Target: dst, Sign: sign, Type: typ})
	g.edgeByKey[key] = id
	g.nodes[src].out = append(g.nodes[src].out, id)
	g.nodes[dst].in = append(g.nodes[dst].in, id)
	return id, nil
}

// AddMember records that member is a structural member of parent
// (e.g. a protein inside a complex). Repeated calls are no-ops.
func (g *Graph) AddMember(parent, member NodeID) error {
	if !g.HasNode(parent) || !g.HasNode(member) {
		return ErrUnknownNode
	}
	if parent == member {
		return ErrSelfMembership
	}
	if slices.Contains(g.nodes[parent].members, member) {
		return nil
	}
	g.nodes[parent].members = append(g.nodes[parent].members, member)
	g.nodes[member].parents = append(g.nodes[member].parents, parent)
	return nil
}

// EdgeKey builds the key of the edge between two node keys.
func EdgeKey(sourceKey, targetKey string) string {
	return sourceKey + "|" + targetKey
}

// HasNode reports whether id is a node handle of this graph.
func (g *Graph) HasNode(id NodeID) bool { return id >= 0 && int(id) < len(g.nodes) }

// HasEdge reports whether id is an edge handle of this graph.
func (g *Graph) HasEdge(id EdgeID) bool { return id >= 0 && int(id) < len(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all node handles in insertion order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Edge returns the edge with the given handle.
// The zero Edge (with ID -1) is returned for foreign handles.
func (g *Graph) Edge(id EdgeID) Edge {
	if !g.HasEdge(id) {
		return Edge{ID: -1, Source: -1, Target: -1}
	}
	return g.edges[id]
}

// NodeByKey looks up a node by its key.
func (g *Graph) NodeByKey(key string) (NodeID, bool) {
	id, ok := g.byKey[key]
	return id, ok
}

// EdgeByKey looks up an edge by its "sourceKey|targetKey" key.
func (g *Graph) EdgeByKey(key string) (EdgeID, bool) {
	id, ok := g.edgeByKey[key]
	return id, ok
}

// NodeOf returns the node wrapping the given domain object.
func (g *Graph) NodeOf(o Object) (NodeID, bool) {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return -1, false
	}
	id, ok := g.byObj[o]
	return id, ok
}

// Key returns the key of a node, or "" for foreign handles.
func (g *Graph) Key(id NodeID) string {
	if !g.HasNode(id) {
		return ""
	}
	return g.nodes[id].key
}

// Object returns the domain object wrapped by a node, or nil for foreign handles.
func (g *Graph) Object(id NodeID) Object {
	if !g.HasNode(id) {
		return nil
	}
	return g.nodes[id].obj
}

// IsA reports whether the node's object is an instance of the domain type.
func (g *Graph) IsA(id NodeID, typ string) bool {
	o := g.Object(id)
	return o != nil && o.IsA(typ)
}

// Attr returns a named attribute of the node's object, if it exposes one.
func (g *Graph) Attr(id NodeID, name string) (any, bool) {
	a, ok := g.Object(id).(Attributed)
	if !ok {
		return nil, false
	}
	return a.Attr(name)
}

// Outgoing returns the handles of edges leaving the node.
// The returned slice should not be modified.
func (g *Graph) Outgoing(id NodeID) []EdgeID {
	if !g.HasNode(id) {
		return nil
	}
	return g.nodes[id].out
}

// Incoming returns the handles of edges entering the node.
// The returned slice should not be modified.
func (g *Graph) Incoming(id NodeID) []EdgeID {
	if !g.HasNode(id) {
		return nil
	}
	return g.nodes[id].in
}

// Successors returns the targets of the node's outgoing edges.
func (g *Graph) Successors(id NodeID) []NodeID {
	out := g.Outgoing(id)
	result := make([]NodeID, len(out))
	for i, e := range out {
		result[i] = g.edges[e].Target
	}
	return result
}

// Predecessors returns the sources of the node's incoming edges.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	in := g.Incoming(id)
	result := make([]NodeID, len(in))
	for i, e := range in {
		result[i] = g.edges[e].Source
	}
	return result
}

// Members returns the structural members of a container node.
// The returned slice should not be modified.
func (g *Graph) Members(id NodeID) []NodeID {
	if !g.HasNode(id) {
		return nil
	}
	return g.nodes[id].members
}

// Parents returns the containers the node is a member of.
// The returned slice should not be modified.
func (g *Graph) Parents(id NodeID) []NodeID {
	if !g.HasNode(id) {
		return nil
	}
	return g.nodes[id].parents
}

// Containers returns every node that has at least one member, in insertion order.
func (g *Graph) Containers() []NodeID {
	var result []NodeID
	for i := range g.nodes {
		if len(g.nodes[i].members) > 0 {
			result = append(result, NodeID(i))
		}
	}
	return result
}

// Keys maps node handles to their keys, preserving order.
func (g *Graph) Keys(ids []NodeID) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = g.Key(id)
	}
	return keys
}

// Resolve maps keys to node handles. Keys not present in the graph are
// returned separately rather than treated as an error, since traversals
// treat absent nodes as contributing nothing.
func (g *Graph) Resolve(keys []string) (ids []NodeID, missing []string) {
	for _, k := range keys {
		if id, ok := g.byKey[k]; ok {
			ids = append(ids, id)
		} else {
			missing = append(missing, k)
		}
	}
	return ids, missing
}
