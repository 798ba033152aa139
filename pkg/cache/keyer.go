package cache

import "slices"

// Keyer builds cache keys for each kind of cached value.
type Keyer interface {
	// NetworkKey identifies a serialized network by store and name.
	NetworkKey(source, name string) string

	// QueryKey identifies a query result computed on a network.
	QueryKey(networkHash string, opts QueryKeyOpts) string

	// ArtifactKey identifies a rendering of a query result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string

	// ResultKey identifies a stored API response by its id.
	ResultKey(id string) string
}

// QueryKeyOpts are the query arguments that affect the result.
type QueryKeyOpts struct {
	Algorithm   string   `json:"algorithm"`
	Sources     []string `json:"sources,omitempty"`
	Targets     []string `json:"targets,omitempty"`
	Limit       int      `json:"limit"`
	Direction   string   `json:"direction,omitempty"`
	Exclude     []string `json:"exclude,omitempty"`
	Complete    string   `json:"complete,omitempty"`
	PatternHash string   `json:"pattern_hash,omitempty"`
	MaxMatches  int      `json:"max_matches,omitempty"`
}

// normalized returns a copy with order-insensitive fields sorted, so
// "TP53,MDM2" and "MDM2,TP53" share a cache entry.
func (o QueryKeyOpts) normalized() QueryKeyOpts {
	o.Sources = sortedCopy(o.Sources)
	o.Targets = sortedCopy(o.Targets)
	o.Exclude = sortedCopy(o.Exclude)
	return o
}

// ArtifactKeyOpts select a rendering of a result.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// NetworkKey returns "network:<source>:<name>".
func (DefaultKeyer) NetworkKey(source, name string) string {
	return "network:" + source + ":" + name
}

// QueryKey hashes the network hash together with the normalized options.
func (DefaultKeyer) QueryKey(networkHash string, opts QueryKeyOpts) string {
	return hashKey("query", networkHash, opts.normalized())
}

// ArtifactKey hashes the result hash together with the render options.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

// ResultKey returns "result:<id>".
func (DefaultKeyer) ResultKey(id string) string {
	return "result:" + id
}

func sortedCopy(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}

var _ Keyer = DefaultKeyer{}
