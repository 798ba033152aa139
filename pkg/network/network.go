package network

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/pathquery/pkg/graph"
)

var (
	// ErrInvalidID is returned when an entity ID is empty or contains '|',
	// which is reserved for edge keys.
	ErrInvalidID = errors.New("invalid entity id")

	// ErrInvalidType is returned for entity types outside the hierarchy.
	ErrInvalidType = errors.New("invalid entity type")

	// ErrDuplicateEntity is returned when an ID is added twice.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrUnknownEntity is returned when an interaction or membership refers
	// to an ID that is not part of the network.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNotComplex is returned when members are added to a non-complex.
	ErrNotComplex = errors.New("entity is not a complex")
)

// Entity is a molecule, complex or gene of the reference model.
type Entity struct {
	ID      string
	Name    string
	Type    Type
	Attrs   map[string]any
	members []string
}

// Key returns the entity ID.
func (e *Entity) Key() string { return e.ID }

// IsA reports whether the entity is an instance of the named type.
func (e *Entity) IsA(typ string) bool { return e.Type.IsA(Type(typ)) }

// Attr returns a named attribute. "id", "name" and "type" are always
// available; everything else comes from Attrs.
func (e *Entity) Attr(name string) (any, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "name":
		return e.Name, e.Name != ""
	case "type":
		return string(e.Type), true
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// Members returns the IDs of a complex's members in insertion order.
func (e *Entity) Members() []string { return slices.Clone(e.members) }

// Interaction is a directed relation between two entities.
type Interaction struct {
	Source     string
	Target     string
	Type       string
	Inhibitory bool
}

// Network is an in-memory interaction network. It is the reference domain
// model the query engine is exercised against and implements both
// [graph.RelationSelector] and [graph.MembershipSelector].
type Network struct {
	Name        string
	Description string

	entities     []*Entity
	byID         map[string]*Entity
	interactions []Interaction
	outgoing     map[string][]int
	ubiques      map[string]bool
}

// New creates an empty network.
func New(name string) *Network {
	return &Network{
		Name:     name,
		byID:     make(map[string]*Entity),
		outgoing: make(map[string][]int),
		ubiques:  make(map[string]bool),
	}
}

// AddEntity adds a copy of e and returns the stored entity.
// An empty type defaults to PhysicalEntity.
func (n *Network) AddEntity(e Entity) (*Entity, error) {
	if e.ID == "" || strings.Contains(e.ID, "|") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, e.ID)
	}
	if e.Type == "" {
		e.Type = TypePhysicalEntity
	}
	if !e.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, e.Type)
	}
	if _, dup := n.byID[e.ID]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateEntity, e.ID)
	}
	stored := &Entity{ID: e.ID, Name: e.Name, Type: e.Type, Attrs: maps.Clone(e.Attrs)}
	n.entities = append(n.entities, stored)
	n.byID[e.ID] = stored
	return stored, nil
}

// AddInteraction adds a directed interaction between two existing entities.
// An empty type defaults to "interaction".
func (n *Network) AddInteraction(i Interaction) error {
	if _, ok := n.byID[i.Source]; !ok {
		return fmt.Errorf("interaction source: %w: %q", ErrUnknownEntity, i.Source)
	}
	if _, ok := n.byID[i.Target]; !ok {
		return fmt.Errorf("interaction target: %w: %q", ErrUnknownEntity, i.Target)
	}
	if i.Type == "" {
		i.Type = "interaction"
	}
	n.outgoing[i.Source] = append(n.outgoing[i.Source], len(n.interactions))
	n.interactions = append(n.interactions, i)
	return nil
}

// Link adds an interaction of the given type whose polarity follows
// [Inhibitory].
func (n *Network) Link(source, interactionType, target string) error {
	return n.AddInteraction(Interaction{
		Source:     source,
		Target:     target,
		Type:       interactionType,
		Inhibitory: Inhibitory(interactionType),
	})
}

// AddMember records memberID as a member of the complex complexID.
// Adding the same member twice is a no-op.
func (n *Network) AddMember(complexID, memberID string) error {
	c, ok := n.byID[complexID]
	if !ok {
		return fmt.Errorf("complex: %w: %q", ErrUnknownEntity, complexID)
	}
	if !c.Type.IsA(TypeComplex) {
		return fmt.Errorf("%w: %q is a %s", ErrNotComplex, complexID, c.Type)
	}
	if _, ok := n.byID[memberID]; !ok {
		return fmt.Errorf("member: %w: %q", ErrUnknownEntity, memberID)
	}
	if complexID == memberID {
		return fmt.Errorf("%w: complex %q cannot contain itself", ErrInvalidID, complexID)
	}
	if !slices.Contains(c.members, memberID) {
		c.members = append(c.members, memberID)
	}
	return nil
}

// MarkUbique flags entities as ubiquitous (ATP, water, ...). Unknown IDs
// are recorded too so ubique lists can be shared between networks.
func (n *Network) MarkUbique(ids ...string) {
	for _, id := range ids {
		n.ubiques[id] = true
	}
}

// IsUbique reports whether id was marked ubiquitous.
func (n *Network) IsUbique(id string) bool { return n.ubiques[id] }

// Ubiques returns the ubiquitous IDs in sorted order.
func (n *Network) Ubiques() []string {
	return slices.Sorted(maps.Keys(n.ubiques))
}

// Entity looks up an entity by ID.
func (n *Network) Entity(id string) (*Entity, bool) {
	e, ok := n.byID[id]
	return e, ok
}

// Entities returns all entities in insertion order.
func (n *Network) Entities() []*Entity { return slices.Clone(n.entities) }

// Interactions returns all interactions in insertion order.
func (n *Network) Interactions() []Interaction { return slices.Clone(n.interactions) }

// Len returns the number of entities.
func (n *Network) Len() int { return len(n.entities) }

// Objects returns the entities as graph objects, ready for [graph.Wrap].
func (n *Network) Objects() []graph.Object {
	objs := make([]graph.Object, len(n.entities))
	for i, e := range n.entities {
		objs[i] = e
	}
	return objs
}

// Relations implements [graph.RelationSelector].
func (n *Network) Relations(o graph.Object) []graph.Relation {
	e, ok := o.(*Entity)
	if !ok {
		return nil
	}
	idx := n.outgoing[e.ID]
	rels := make([]graph.Relation, 0, len(idx))
	for _, i := range idx {
		in := n.interactions[i]
		rels = append(rels, graph.Relation{
			Target:     n.byID[in.Target],
			Type:       in.Type,
			Inhibitory: in.Inhibitory,
		})
	}
	return rels
}

// Members implements [graph.MembershipSelector].
func (n *Network) Members(o graph.Object) []graph.Object {
	e, ok := o.(*Entity)
	if !ok || len(e.members) == 0 {
		return nil
	}
	objs := make([]graph.Object, 0, len(e.members))
	for _, id := range e.members {
		objs = append(objs, n.byID[id])
	}
	return objs
}

// Graph wraps the whole network.
func (n *Network) Graph(opts ...graph.WrapOption) (*graph.Graph, error) {
	return graph.Wrap(n.Objects(), n, opts...)
}

// UbiqueFilter returns a predicate reporting the nodes of g whose entities
// are marked ubiquitous, for use with query.WithExclude.
func (n *Network) UbiqueFilter(g *graph.Graph) func(graph.NodeID) bool {
	return func(id graph.NodeID) bool {
		return n.ubiques[g.Key(id)]
	}
}
