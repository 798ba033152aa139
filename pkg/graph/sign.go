package graph

import (
	"fmt"
	"strings"
)

// Sign is the polarity of an edge: +1 for activating or neutral relations,
// -1 for inhibitory ones.
type Sign int8

const (
	Negative Sign = -1
	Positive Sign = 1
)

// Valid reports whether s is +1 or -1.
func (s Sign) Valid() bool { return s == Positive || s == Negative }

// Compose returns the sign of a path consisting of s followed by t.
func (s Sign) Compose(t Sign) Sign { return s * t }

func (s Sign) String() string {
	switch s {
	case Positive:
		return "+"
	case Negative:
		return "-"
	default:
		return "?"
	}
}

// ParseSign parses "+", "positive", "-" or "negative".
func ParseSign(s string) (Sign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "positive", "+1", "1":
		return Positive, nil
	case "-", "negative", "-1":
		return Negative, nil
	}
	return 0, fmt.Errorf("invalid sign %q (want + or -)", s)
}

// SignOf returns Negative for inhibitory relations and Positive otherwise.
func SignOf(inhibitory bool) Sign {
	if inhibitory {
		return Negative
	}
	return Positive
}

// PathSign composes the signs of the given edges. An empty path is Positive.
func PathSign(g *Graph, edges []EdgeID) Sign {
	s := Positive
	for _, e := range edges {
		if g.HasEdge(e) {
			s = s.Compose(g.edges[e].Sign)
		}
	}
	return s
}
