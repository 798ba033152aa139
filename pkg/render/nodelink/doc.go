// Package nodelink renders query results as node-link diagrams.
//
// # Overview
//
// This package produces directed graph drawings using Graphviz. Entities
// are drawn with a shape per entity type, interactions as arrows, and
// inhibitory interactions with a flat "tee" head, the usual notation in
// signalling diagrams. Complex membership is drawn as dashed lines without
// arrowheads.
//
// # Usage
//
// Build a [Graph] from a result, convert it to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: label nodes with their type and edges with their
//     interaction type
//   - LeftToRight: lay the drawing out horizontally
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
