// Package render converts rendered SVG to other output formats.
//
// The [ToPDF] and [ToPNG] functions shell out to rsvg-convert (from
// librsvg). The [nodelink] subpackage produces the SVG.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/pathquery/pkg/render/nodelink
package render
