// Package pipeline runs queries against interaction networks for pathquery.
//
// This package implements the query → complete → render pipeline that is
// shared by the CLI and the HTTP API. By centralizing this logic, both entry
// points resolve keys, apply exclusions, cache results and report hooks the
// same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Query: Wrap the network and run a neighborhood, path, common-stream
//     or pattern query against it
//  2. Complete: Optionally close the result node set over complex membership
//  3. Render: Generate output in various formats (JSON, DOT, SVG, PNG, PDF)
//
// Query results are cached by network content hash plus the normalized query
// options; rendered artifacts are cached by result hash plus format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Algorithm: pipeline.AlgorithmNeighborhood,
//	    Sources:   []string{"TP53"},
//	    Limit:     2,
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, network, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathquery/pkg/cache"
	"github.com/matzehuels/pathquery/pkg/completer"
	"github.com/matzehuels/pathquery/pkg/query"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLimit is the default traversal limit in hops (or path edges).
	// Zero is a valid limit, so callers preinitialize Options.Limit with it
	// instead of relying on a zero-value default.
	DefaultLimit = 1

	// DefaultMaxMatches caps the number of pattern matches collected.
	DefaultMaxMatches = 1000
)

// DefaultDirection is the default traversal direction.
const DefaultDirection = "bothstream"

// Algorithm names.
const (
	AlgorithmNeighborhood = "neighborhood"
	AlgorithmPaths        = "paths"
	AlgorithmBetween      = "between"
	AlgorithmCommon       = "common"
	AlgorithmSearch       = "search"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidAlgorithms is the set of supported query algorithms.
var ValidAlgorithms = map[string]bool{
	AlgorithmNeighborhood: true,
	AlgorithmPaths:        true,
	AlgorithmBetween:      true,
	AlgorithmCommon:       true,
	AlgorithmSearch:       true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one query run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Query options
	Algorithm      string   `json:"algorithm"`
	Sources        []string `json:"sources,omitempty"`
	Targets        []string `json:"targets,omitempty"`
	Limit          int      `json:"limit"`
	Direction      string   `json:"direction,omitempty"`
	Exclude        []string `json:"exclude,omitempty"`
	ExcludeUbiques bool     `json:"exclude_ubiques,omitempty"`
	Pattern        string   `json:"pattern,omitempty"` // TOML pattern description
	MaxMatches     int      `json:"max_matches,omitempty"`
	Refresh        bool     `json:"refresh,omitempty"`

	// Completion options
	Complete        string `json:"complete,omitempty"` // "", "any" or "all"
	CompleteMembers bool   `json:"complete_members,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run. Everything except
// Artifacts is serialized as the JSON result document.
type Result struct {
	Network     string `json:"network"`
	NetworkHash string `json:"network_hash"`
	Algorithm   string `json:"algorithm"`

	Nodes   []Node       `json:"nodes"`
	Edges   []Edge       `json:"edges"`
	Members []Membership `json:"members,omitempty"`

	// Paths is set by the paths and between algorithms.
	Paths []Path `json:"paths,omitempty"`

	// Labels and Matches are set by the search algorithm. Each match lists
	// one key per label, in label order.
	Labels    []string   `json:"labels,omitempty"`
	Matches   [][]string `json:"matches,omitempty"`
	Truncated bool       `json:"truncated,omitempty"`

	// Missing lists requested keys that are not part of the network.
	Missing []string `json:"missing,omitempty"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte `json:"-"`
}

// Node is a result node.
type Node struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
	Query bool   `json:"query,omitempty"` // requested source or target
}

// Edge is a result interaction.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
	Sign   string `json:"sign"`
}

// Membership links a complex to one of its members.
type Membership struct {
	Complex string `json:"complex"`
	Member  string `json:"member"`
}

// Path is one path of a path query, as node IDs.
type Path struct {
	Nodes []string `json:"nodes"`
	Sign  string   `json:"sign"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
	QueryTime  time.Duration `json:"query_time"`
	RenderTime time.Duration `json:"render_time"`
}

// Size is the number of result elements reported to query hooks.
func (r *Result) Size() int {
	if r.Matches != nil {
		return len(r.Matches)
	}
	return len(r.Nodes)
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return pqerrors.New(pqerrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAlgorithm checks that an algorithm name is valid.
func ValidateAlgorithm(algorithm string) error {
	if !ValidAlgorithms[algorithm] {
		return pqerrors.New(pqerrors.ErrCodeInvalidParameter,
			"invalid algorithm: %q (must be one of: neighborhood, paths, between, common, search)", algorithm)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Algorithm = strings.ToLower(strings.TrimSpace(o.Algorithm))
	if err := ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if err := pqerrors.ValidateLimit(o.Limit); err != nil {
		return err
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	dir, err := query.ParseDirection(o.Direction)
	if err != nil {
		return err
	}
	o.Direction = dir.String()
	if _, err := completer.ParsePolicy(o.Complete); err != nil {
		return pqerrors.Wrap(pqerrors.ErrCodeInvalidParameter, err, "complete")
	}

	switch o.Algorithm {
	case AlgorithmNeighborhood, AlgorithmCommon, AlgorithmBetween:
		if err := pqerrors.ValidateKeys("source", o.Sources); err != nil {
			return err
		}
	case AlgorithmPaths:
		if err := pqerrors.ValidateKeys("source", o.Sources); err != nil {
			return err
		}
		if err := pqerrors.ValidateKeys("target", o.Targets); err != nil {
			return err
		}
	case AlgorithmSearch:
		if strings.TrimSpace(o.Pattern) == "" {
			return pqerrors.New(pqerrors.ErrCodeInvalidParameter, "search requires a pattern")
		}
		if o.MaxMatches < 0 {
			return pqerrors.New(pqerrors.ErrCodeInvalidParameter, "max_matches must be >= 0, got %d", o.MaxMatches)
		}
		if o.MaxMatches == 0 {
			o.MaxMatches = DefaultMaxMatches
		}
		if len(o.Sources) > 0 {
			if err := pqerrors.ValidateKeys("seed", o.Sources); err != nil {
				return err
			}
		}
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CompletionPolicy returns the completer for the options, or nil when
// completion is disabled.
func (o *Options) CompletionPolicy() *completer.Completer {
	if o.Complete == "" && !o.CompleteMembers {
		return nil
	}
	policy, err := completer.ParsePolicy(o.Complete)
	if err != nil {
		return nil
	}
	return completer.New(completer.WithPolicy(policy), completer.WithMembers(o.CompleteMembers))
}

// QueryKeyOpts returns cache key options for the query stage.
func (o *Options) QueryKeyOpts() cache.QueryKeyOpts {
	// Seeds bind pattern variables positionally, so their order is part of
	// the pattern hash rather than the (sorted) source list.
	var patternHash string
	if o.Pattern != "" {
		patternHash = cache.Hash([]byte(o.Pattern + "\x00" + strings.Join(o.Sources, "\x00")))
	}
	exclude := slices.Clone(o.Exclude)
	if o.ExcludeUbiques {
		exclude = append(exclude, "@ubiques")
	}
	complete := o.Complete
	if o.CompleteMembers {
		complete += "+members"
	}
	return cache.QueryKeyOpts{
		Algorithm:   o.Algorithm,
		Sources:     o.Sources,
		Targets:     o.Targets,
		Limit:       o.Limit,
		Direction:   o.Direction,
		Exclude:     exclude,
		Complete:    complete,
		PatternHash: patternHash,
		MaxMatches:  o.MaxMatches,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := "compact"
	if o.Detailed {
		style = "detailed"
	}
	return cache.ArtifactKeyOpts{Format: format, Style: style}
}
