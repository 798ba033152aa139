package io_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	"github.com/matzehuels/pathquery/pkg/graph"
	pqio "github.com/matzehuels/pathquery/pkg/io"
)

const feedbackNetwork = `
[[entity]]
id = "TP53"
type = "Protein"

[[entity]]
id = "MDM2"
type = "Protein"

[[entity]]
id = "CDKN1A"
type = "Protein"

[[interaction]]
source = "TP53"
target = "MDM2"
type = "expression"

[[interaction]]
source = "MDM2"
target = "TP53"
type = "inhibition"

[[interaction]]
source = "TP53"
target = "CDKN1A"
type = "expression"
`

const feedbackPattern = `
name = "negative-feedback"
description = "a regulates b and b regulates a back"

[[var]]
label = "a"
type = "Protein"
seed = true

[[var]]
label = "b"

[[constraint]]
type = "successor"
vars = ["a", "b"]

[[constraint]]
type = "and"
vars = ["b", "a"]
  [[constraint.children]]
  type = "successor"
  [[constraint.children]]
  type = "equality"
  args = { equal = false }
`

const inhibitionPattern = `
[[var]]
label = "a"
seed = true

[[var]]
label = "e"
kind = "edge"

[[var]]
label = "b"

[[constraint]]
type = "out-edge"
vars = ["a", "e"]

[[constraint]]
type = "edge-target"
vars = ["e", "b"]

[[constraint]]
type = "edge-sign"
vars = ["e"]
args = { sign = "-" }
`

func feedbackGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := readTOML(t, feedbackNetwork).Graph()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func search(t *testing.T, pf *pqio.PatternFile, g *graph.Graph, seeds ...string) []string {
	t.Helper()
	seq, err := pf.Pattern.SearchKeys(g, seeds...)
	if err != nil {
		t.Fatalf("SearchKeys(%v): %v", seeds, err)
	}
	var out []string
	for m := range seq {
		out = append(out, m.String())
	}
	return out
}

func TestReadPattern(t *testing.T) {
	g := feedbackGraph(t)
	tests := []struct {
		name  string
		src   string
		seeds []string
		want  []string
	}{
		{"FeedbackFromTP53", feedbackPattern, []string{"TP53"}, []string{"[TP53 MDM2]"}},
		{"FeedbackFromCDKN1A", feedbackPattern, []string{"CDKN1A"}, nil},
		{"InhibitionFromMDM2", inhibitionPattern, []string{"MDM2"}, []string{"[MDM2 MDM2|TP53 TP53]"}},
		{"InhibitionFromTP53", inhibitionPattern, []string{"TP53"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf, err := pqio.ReadPattern(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("ReadPattern: %v", err)
			}
			if got := search(t, pf, g, tt.seeds...); !slices.Equal(got, tt.want) {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadPatternHeader(t *testing.T) {
	pf, err := pqio.ReadPattern(strings.NewReader(feedbackPattern))
	if err != nil {
		t.Fatal(err)
	}
	if pf.Name != "negative-feedback" || pf.Description == "" {
		t.Errorf("header = %q, %q", pf.Name, pf.Description)
	}
	if !slices.Equal(pf.Seeds, []string{"a"}) {
		t.Errorf("Seeds = %v", pf.Seeds)
	}
	if got := pf.Pattern.Order(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Order = %v", got)
	}
}

func TestReadPatternSlots(t *testing.T) {
	// a -> x -> b with a != b; the composite binds b once x is known.
	src := `
[[var]]
label = "a"
seed = true
[[var]]
label = "x"
[[var]]
label = "b"

[[constraint]]
type = "successor"
vars = ["a", "x"]

[[constraint]]
type = "and"
vars = ["a", "x", "b"]
  [[constraint.children]]
  type = "successor"
  slots = [1, 2]
  [[constraint.children]]
  type = "equality"
  slots = [0, 2]
  args = { equal = false }
`
	pf, err := pqio.ReadPattern(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPattern: %v", err)
	}
	g := feedbackGraph(t)
	if got := search(t, pf, g, "MDM2"); !slices.Equal(got, []string{"[MDM2 TP53 CDKN1A]"}) {
		t.Errorf("matches from MDM2 = %v", got)
	}
	if got := search(t, pf, g, "TP53"); got != nil {
		t.Errorf("matches from TP53 = %v, want none (the only two-step walk returns to TP53)", got)
	}
}

func TestReadPatternErrors(t *testing.T) {
	header := "[[var]]\nlabel = \"a\"\n[[var]]\nlabel = \"b\"\n"
	tests := []struct {
		name string
		src  string
		code pqerrors.Code
	}{
		{"UnknownKey", "nme = \"x\"", pqerrors.ErrCodeInvalidFormat},
		{"NoVars", "name = \"empty\"", pqerrors.ErrCodeInvalidPattern},
		{"UnknownConstraint", header + "[[constraint]]\ntype = \"regulates\"\nvars = [\"a\", \"b\"]", pqerrors.ErrCodeInvalidPattern},
		{"BadKind", "[[var]]\nlabel = \"a\"\nkind = \"hyperedge\"", pqerrors.ErrCodeInvalidPattern},
		{"MissingArg", header + "[[constraint]]\ntype = \"edge-sign\"\nvars = [\"a\"]", pqerrors.ErrCodeInvalidPattern},
		{"BadSign", header + "[[constraint]]\ntype = \"edge-sign\"\nvars = [\"a\"]\nargs = { sign = \"0\" }", pqerrors.ErrCodeInvalidPattern},
		{"BadEntityType", header + "[[constraint]]\ntype = \"type\"\nvars = [\"a\"]\nargs = { type = \"Enzyme\" }", pqerrors.ErrCodeInvalidPattern},
		{"TopLevelSlots", header + "[[constraint]]\ntype = \"successor\"\nvars = [\"a\", \"b\"]\nslots = [0, 1]", pqerrors.ErrCodeInvalidPattern},
		{"NotTwoChildren", header + "[[constraint]]\ntype = \"not\"\nvars = [\"a\", \"b\"]\n[[constraint.children]]\ntype = \"successor\"\n[[constraint.children]]\ntype = \"predecessor\"", pqerrors.ErrCodeInvalidPattern},
		{"EmptyAnd", header + "[[constraint]]\ntype = \"and\"\nvars = [\"a\"]", pqerrors.ErrCodeInvalidPattern},
		{"SlotCount", header + "[[constraint]]\ntype = \"or\"\nvars = [\"a\", \"b\"]\n[[constraint.children]]\ntype = \"successor\"\nslots = [1]", pqerrors.ErrCodeInvalidPattern},
		{"NegativeLimit", header + "[[constraint]]\ntype = \"reachable\"\nvars = [\"a\", \"b\"]\nargs = { limit = -1 }", pqerrors.ErrCodeInvalidPattern},
		{"BadDirection", header + "[[constraint]]\ntype = \"reachable\"\nvars = [\"a\", \"b\"]\nargs = { limit = 2, direction = \"sideways\" }", pqerrors.ErrCodeInvalidPattern},
		{"NoGenerator", header + "[[constraint]]\ntype = \"any-node\"\nvars = [\"a\"]", pqerrors.ErrCodeInvalidPattern},
		{"WrongVarCount", header + "[[constraint]]\ntype = \"successor\"\nvars = [\"a\"]", pqerrors.ErrCodeInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pqio.ReadPattern(strings.NewReader(tt.src))
			if !pqerrors.Is(err, tt.code) {
				t.Errorf("ReadPattern error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConstraintTypes(t *testing.T) {
	types := pqio.ConstraintTypes()
	if !slices.IsSorted(types) {
		t.Errorf("ConstraintTypes not sorted: %v", types)
	}
	for _, want := range []string{"and", "attr", "edge-sign", "not", "or", "reachable", "successor", "type"} {
		if !slices.Contains(types, want) {
			t.Errorf("ConstraintTypes missing %q", want)
		}
	}
}

func ExampleReadPattern() {
	pf, err := pqio.ReadPattern(strings.NewReader(feedbackPattern))
	if err != nil {
		panic(err)
	}
	fmt.Println(pf.Name, pf.Pattern.Labels(), pf.Seeds)
	// Output: negative-feedback [a b] [a]
}
