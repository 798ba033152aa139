package nodelink

import (
	"bytes"
	"strings"
	"testing"
)

func sample() Graph {
	return Graph{
		Name: "p53",
		Nodes: []Node{
			{ID: "TP53", Name: "p53", Type: "Protein", Query: true},
			{ID: "MDM2", Type: "Protein"},
			{ID: "TP53:MDM2", Type: "Complex"},
			{ID: "ATP", Type: "SmallMolecule"},
		},
		Edges: []Edge{
			{Source: "TP53", Target: "MDM2", Type: "expression"},
			{Source: "MDM2", Target: "TP53", Type: "inhibition", Inhibitory: true},
			{Source: "TP53:MDM2", Target: "TP53", Member: true},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{})
	tests := []struct {
		name string
		want string
	}{
		{"Header", "digraph G {\n  rankdir=TB;\n"},
		{"Title", `label="p53";`},
		{"QueryNode", `"TP53" [label="p53\nTP53", shape=box, fillcolor=lightblue, penwidth=2];`},
		{"Complex", `"TP53:MDM2" [label="TP53:MDM2", shape=box3d];`},
		{"Molecule", `"ATP" [label="ATP", shape=ellipse];`},
		{"Activation", `"TP53" -> "MDM2" [arrowhead=normal];`},
		{"Inhibition", `"MDM2" -> "TP53" [arrowhead=tee, color=firebrick];`},
		{"Membership", `"TP53:MDM2" -> "TP53" [style=dashed, arrowhead=none, color=grey];`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("DOT missing %q:\n%s", tt.want, dot)
			}
		})
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true, LeftToRight: true})
	for _, want := range []string{
		"rankdir=LR;",
		`label="MDM2\n(Protein)"`,
		`[arrowhead=tee, color=firebrick, label="inhibition"]`,
		`[arrowhead=normal, label="expression"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(Graph{}, Options{})
	if strings.Contains(dot, "label=") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty graph DOT:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sample(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<?xml")) && !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", svg)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Error("viewBox was not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("input without viewBox changed: %s", got)
	}
}
