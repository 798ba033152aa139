// Package pkg provides the core libraries for pathquery, a query and pattern
// matching engine over biological interaction networks.
//
// # Overview
//
// pathquery answers graph questions about directed, signed interaction
// networks: what lies within k steps of a set of proteins, which paths
// connect two sets, what is commonly upstream of several genes, and which
// subgraphs match a declarative pattern. The pkg directory is organized into
// four areas:
//
//  1. Engine: [graph], [pattern], [query] and [completer] hold the
//     domain-independent algorithms
//  2. Domain: [network] is the reference interaction network and [io] reads
//     and writes networks and pattern files
//  3. Infrastructure: [cache], [store], [observability] and [errors]
//  4. Orchestration: [pipeline] runs query, complete and render; [api] serves
//     it over HTTP; [render] draws results
//
// # Architecture
//
// The typical data flow through pathquery:
//
//	TOML/JSON/SIF network file or stored network
//	         ↓
//	    [io] / [store] (load network)
//	         ↓
//	    [network] Graph (wrap into the Graph Abstraction Layer)
//	         ↓
//	    [query] / [pattern] (traverse or search)
//	         ↓
//	    [completer] (optional complex completion)
//	         ↓
//	    [render/nodelink] (DOT, SVG, PNG, PDF) or JSON
//
// # Quick Start
//
// Run a neighborhood query against a network file:
//
//	import (
//	    "github.com/matzehuels/pathquery/pkg/io"
//	    "github.com/matzehuels/pathquery/pkg/pipeline"
//	)
//
//	n, _ := io.ImportNetwork("p53.toml")
//	res, _ := pipeline.Query(n, pipeline.Options{
//	    Algorithm: pipeline.AlgorithmNeighborhood,
//	    Sources:   []string{"TP53"},
//	    Limit:     1,
//	})
//
// Search a pattern directly on a graph:
//
//	g, _ := n.Graph()
//	p, _ := pattern.NewBuilder().
//	    Node("a", "Protein").Seed("a").
//	    Edge("e", "").
//	    Node("b", "").
//	    Add(constraint.OutEdge(), "a", "e").
//	    Add(constraint.EdgeTarget(), "e", "b").
//	    Build()
//	matches, _ := p.SearchKeys(g, "TP53")
//	for m := range matches {
//	    fmt.Println(m.Keys())
//	}
//
// # Package Organization
//
// Engine:
//   - [graph]: Arena graph of nodes and signed edges, element handles, wrapping
//   - [pattern]: Pattern builder and backtracking search
//   - [pattern/constraint]: Atomic and composite constraints
//   - [query]: Neighborhood, common stream, paths of interest, paths between
//   - [completer]: Complex membership completion
//
// Domain:
//   - [network]: Entity and interaction types, polarity, ubiquitous molecules
//   - [io]: TOML, JSON and SIF network codecs; TOML pattern files
//
// Infrastructure:
//   - [cache]: File, Redis and null caches with key generation
//   - [store]: File and MongoDB network stores
//   - [observability]: Query, cache and HTTP hooks with a Prometheus backend
//   - [errors]: Coded errors and input validation
//   - [buildinfo]: Version information
//
// Orchestration:
//   - [pipeline]: Query, complete and render with caching
//   - [render]: Format conversion; [render/nodelink] for DOT and SVG
//   - [api]: chi HTTP service for networks, queries and results
//
// [graph]: github.com/matzehuels/pathquery/pkg/graph
// [pattern]: github.com/matzehuels/pathquery/pkg/pattern
// [pattern/constraint]: github.com/matzehuels/pathquery/pkg/pattern/constraint
// [query]: github.com/matzehuels/pathquery/pkg/query
// [completer]: github.com/matzehuels/pathquery/pkg/completer
// [network]: github.com/matzehuels/pathquery/pkg/network
// [io]: github.com/matzehuels/pathquery/pkg/io
// [cache]: github.com/matzehuels/pathquery/pkg/cache
// [store]: github.com/matzehuels/pathquery/pkg/store
// [observability]: github.com/matzehuels/pathquery/pkg/observability
// [errors]: github.com/matzehuels/pathquery/pkg/errors
// [buildinfo]: github.com/matzehuels/pathquery/pkg/buildinfo
// [pipeline]: github.com/matzehuels/pathquery/pkg/pipeline
// [render]: github.com/matzehuels/pathquery/pkg/render
// [render/nodelink]: github.com/matzehuels/pathquery/pkg/render/nodelink
// [api]: github.com/matzehuels/pathquery/pkg/api
package pkg
