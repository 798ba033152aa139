package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/pathquery/pkg/render/nodelink"
)

// Render generates output artifacts for res in the requested formats.
func Render(res *Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	needsDOT := false
	for _, f := range opts.Formats {
		if f != FormatJSON {
			needsDOT = true
		}
	}
	if needsDOT {
		dot = nodelink.ToDOT(ToGraph(res), nodelink.Options{Detailed: opts.Detailed})
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = MarshalResult(res)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, 2.0)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// ToGraph converts a result into the node-link drawing model.
func ToGraph(res *Result) nodelink.Graph {
	g := nodelink.Graph{Name: res.Network}
	for _, n := range res.Nodes {
		g.Nodes = append(g.Nodes, nodelink.Node{ID: n.ID, Name: n.Name, Type: n.Type, Query: n.Query})
	}
	for _, e := range res.Edges {
		g.Edges = append(g.Edges, nodelink.Edge{
			Source:     e.Source,
			Target:     e.Target,
			Type:       e.Type,
			Inhibitory: e.Sign == "-",
		})
	}
	for _, m := range res.Members {
		g.Edges = append(g.Edges, nodelink.Edge{Source: m.Complex, Target: m.Member, Member: true})
	}
	return g
}

// MarshalResult encodes res as indented JSON.
func MarshalResult(res *Result) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// UnmarshalResult decodes a JSON result document.
func UnmarshalResult(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
