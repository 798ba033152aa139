// Package completer closes a result node set over complex membership.
//
// Query results are plain node sets: a neighborhood of TP53 contains TP53
// but not the TP53:MDM2 complex it is part of, unless some interaction
// happened to lead there. A [Completer] adds such containers, and
// optionally the members of containers already in the set, until nothing
// changes. Completion is purely additive and idempotent.
package completer

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pathquery/pkg/graph"
)

// Policy decides when a container joins the set.
type Policy int

const (
	// AnyMember adds a container as soon as one of its members is present.
	AnyMember Policy = iota
	// AllMembers adds a container only when every member is present.
	AllMembers
)

func (p Policy) String() string {
	switch p {
	case AnyMember:
		return "any"
	case AllMembers:
		return "all"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "any" or "all".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "any", "":
		return AnyMember, nil
	case "all":
		return AllMembers, nil
	}
	return 0, fmt.Errorf("unknown completion policy %q (want any or all)", s)
}

// Option configures a Completer.
type Option func(*Completer)

// WithPolicy sets the container policy. The default is AnyMember.
func WithPolicy(p Policy) Option {
	return func(c *Completer) { c.policy = p }
}

// WithMembers also adds the members of every container in the set.
func WithMembers(enabled bool) Option {
	return func(c *Completer) { c.members = enabled }
}

// Completer adds containers (and optionally members) to node sets.
// A Completer is immutable and safe for concurrent use.
type Completer struct {
	policy  Policy
	members bool
}

// New creates a Completer.
func New(opts ...Option) *Completer {
	c := &Completer{policy: AnyMember}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the container policy.
func (c *Completer) Policy() Policy { return c.policy }

// Complete returns set extended with the containers, and members when
// enabled, required by the completer's policy. Nested complexes are
// handled by iterating to a fixpoint. The input set is not modified.
func (c *Completer) Complete(set graph.NodeSet, g *graph.Graph) graph.NodeSet {
	result := set.Clone()
	containers := g.Containers()

	for changed := true; changed; {
		changed = false
		for _, cont := range containers {
			if !result.Has(cont) && c.admit(g.Members(cont), result) {
				result.Add(cont)
				changed = true
			}
			if c.members && result.Has(cont) {
				for _, m := range g.Members(cont) {
					if result.Add(m) {
						changed = true
					}
				}
			}
		}
	}
	return result
}

func (c *Completer) admit(members []graph.NodeID, set graph.NodeSet) bool {
	if c.policy == AllMembers {
		for _, m := range members {
			if !set.Has(m) {
				return false
			}
		}
		return len(members) > 0
	}
	for _, m := range members {
		if set.Has(m) {
			return true
		}
	}
	return false
}
