package network

import (
	"fmt"
	"slices"
	"strings"
)

// Type is an entity type of the reference model. Types form a tree:
//
//	Entity
//	├── PhysicalEntity
//	│   ├── Protein
//	│   ├── SmallMolecule
//	│   ├── Complex
//	│   ├── Rna
//	│   └── Dna
//	└── Gene
type Type string

const (
	TypeEntity         Type = "Entity"
	TypePhysicalEntity Type = "PhysicalEntity"
	TypeProtein        Type = "Protein"
	TypeSmallMolecule  Type = "SmallMolecule"
	TypeComplex        Type = "Complex"
	TypeRna            Type = "Rna"
	TypeDna            Type = "Dna"
	TypeGene           Type = "Gene"
)

var parentType = map[Type]Type{
	TypePhysicalEntity: TypeEntity,
	TypeProtein:        TypePhysicalEntity,
	TypeSmallMolecule:  TypePhysicalEntity,
	TypeComplex:        TypePhysicalEntity,
	TypeRna:            TypePhysicalEntity,
	TypeDna:            TypePhysicalEntity,
	TypeGene:           TypeEntity,
}

// Types returns all known types in hierarchy order.
func Types() []Type {
	return []Type{
		TypeEntity, TypePhysicalEntity, TypeProtein, TypeSmallMolecule,
		TypeComplex, TypeRna, TypeDna, TypeGene,
	}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool { return slices.Contains(Types(), t) }

// IsA reports whether t equals other or descends from it.
func (t Type) IsA(other Type) bool {
	for cur := t; cur != ""; cur = parentType[cur] {
		if cur == other {
			return true
		}
	}
	return false
}

// ParseType parses a type name case-insensitively.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// Interaction types understood by the reference model. Any other non-empty
// string is accepted as a custom, non-inhibitory type.
const (
	Activation        = "activation"
	Inhibition        = "inhibition"
	Expression        = "expression"
	Repression        = "repression"
	Phosphorylation   = "phosphorylation"
	Dephosphorylation = "dephosphorylation"
	Binding           = "binding"
	Conversion        = "conversion"
	Transport         = "transport"
)

// Inhibitory reports whether interactions of the given type have negative
// polarity unless stated otherwise.
func Inhibitory(interactionType string) bool {
	switch interactionType {
	case Inhibition, Repression:
		return true
	}
	return false
}
