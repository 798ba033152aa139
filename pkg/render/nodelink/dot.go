package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pathquery/pkg/render"
)

// Node is an entity in a drawing.
type Node struct {
	ID    string
	Name  string
	Type  string
	Query bool // part of the query input (source, target or seed)
}

// Edge is an interaction, or a membership link when Member is set.
type Edge struct {
	Source     string
	Target     string
	Type       string
	Inhibitory bool
	Member     bool
}

// Graph is the subgraph to draw.
type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds entity types to node labels and interaction types to
	// edge labels. When false, only names are shown.
	Detailed bool
	// LeftToRight lays out the drawing horizontally instead of top-down.
	LeftToRight bool
}

var shapes = map[string]string{
	"Protein":       "box",
	"SmallMolecule": "ellipse",
	"Complex":       "box3d",
	"Rna":           "cds",
	"Dna":           "note",
	"Gene":          "note",
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	if g.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", g.Name)
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n Node, detailed bool) []string {
	label := n.ID
	if n.Name != "" && n.Name != n.ID {
		label = n.Name + "\n" + n.ID
	}
	if detailed && n.Type != "" {
		label += "\n(" + n.Type + ")"
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if shape, ok := shapes[n.Type]; ok {
		attrs = append(attrs, "shape="+shape)
	}
	if n.Query {
		attrs = append(attrs, "fillcolor=lightblue", "penwidth=2")
	}
	return attrs
}

func edgeAttrs(e Edge, detailed bool) []string {
	switch {
	case e.Member:
		return []string{"style=dashed", "arrowhead=none", "color=grey"}
	case e.Inhibitory:
		attrs := []string{"arrowhead=tee", "color=firebrick"}
		if detailed && e.Type != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Type))
		}
		return attrs
	}
	attrs := []string{"arrowhead=normal"}
	if detailed && e.Type != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Type))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
