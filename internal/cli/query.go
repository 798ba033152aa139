package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathquery/pkg/network"
	"github.com/matzehuels/pathquery/pkg/pipeline"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
	pqio "github.com/matzehuels/pathquery/pkg/io"
)

// queryOpts holds the command-line flags shared by the query commands.
type queryOpts struct {
	opts        pipeline.Options
	patternFile string // search: TOML pattern file
	formats     string // comma-separated output formats
	output      string // output file (single format) or base path
	noCache     bool
	interactive bool // search: browse matches in a TUI
}

var queryShort = map[string]string{
	pipeline.AlgorithmNeighborhood: "Nodes within a number of steps of the sources",
	pipeline.AlgorithmPaths:        "Paths from sources to targets up to a length limit",
	pipeline.AlgorithmBetween:      "Paths among a set of nodes up to a length limit",
	pipeline.AlgorithmCommon:       "Common upstream or downstream nodes of the sources",
	pipeline.AlgorithmSearch:       "Search a network for matches of a pattern",
}

// queryCommand creates the command running one query algorithm. The first
// argument is a network file (JSON, TOML or SIF) or the name of a stored
// network.
func (c *CLI) queryCommand(algorithm string) *cobra.Command {
	var q queryOpts
	q.opts.Algorithm = algorithm

	cmd := &cobra.Command{
		Use:   algorithm + " <network>",
		Short: queryShort[algorithm],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				q.opts.Limit = c.cfg.Query.Limit
			}
			if !cmd.Flags().Changed("direction") && q.opts.Direction == "" {
				q.opts.Direction = c.cfg.Query.Direction
			}
			return c.runQuery(cmd.Context(), args[0], &q)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&q.opts.Sources, "source", "s", nil, "source node keys (repeatable or comma-separated)")
	f.StringSliceVar(&q.opts.Exclude, "exclude", nil, "node keys that traversals must not enter")
	f.BoolVar(&q.opts.ExcludeUbiques, "exclude-ubiques", false, "also exclude the network's ubiquitous molecules")
	f.StringVar(&q.opts.Complete, "complete", "", "add complexes whose members are in the result: any, all")
	f.BoolVar(&q.opts.CompleteMembers, "complete-members", false, "also add the members of complexes in the result")
	f.StringVarP(&q.formats, "format", "f", "", "output format(s): json (default), dot, svg, png, pdf (comma-separated)")
	f.StringVarP(&q.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.BoolVar(&q.opts.Detailed, "detailed", false, "label nodes with types and edges with interaction types")
	f.BoolVar(&q.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&q.opts.Refresh, "refresh", false, "recompute even if the result is cached")

	switch algorithm {
	case pipeline.AlgorithmSearch:
		cmd.Long = `Search a network for matches of a TOML pattern file.

Sources, if given, bind the pattern's seed variables. A pattern with one
seed is searched once per source; a pattern with several seeds takes the
sources as one ordered tuple.`
		f.StringVarP(&q.patternFile, "pattern", "p", "", "pattern file (TOML)")
		f.IntVar(&q.opts.MaxMatches, "max-matches", pipeline.DefaultMaxMatches, "stop after this many matches")
		f.BoolVarP(&q.interactive, "interactive", "i", false, "browse matches interactively")
		_ = cmd.MarkFlagRequired("pattern")
	default:
		f.IntVarP(&q.opts.Limit, "limit", "l", pipeline.DefaultLimit, "maximum number of steps")
	}
	switch algorithm {
	case pipeline.AlgorithmNeighborhood, pipeline.AlgorithmCommon:
		f.StringVarP(&q.opts.Direction, "direction", "d", "", "traversal direction: upstream, downstream, bothstream")
	case pipeline.AlgorithmPaths:
		f.StringSliceVarP(&q.opts.Targets, "target", "t", nil, "target node keys (repeatable or comma-separated)")
	}

	noFiles := cobra.ShellCompDirectiveNoFileComp
	_ = cmd.RegisterFlagCompletionFunc("complete", cobra.FixedCompletions([]string{"any", "all"}, noFiles))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(slices.Sorted(maps.Keys(pipeline.ValidFormats)), noFiles))
	if f.Lookup("direction") != nil {
		_ = cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions([]string{"upstream", "downstream", "bothstream"}, noFiles))
	}
	if f.Lookup("pattern") != nil {
		_ = cmd.MarkFlagFilename("pattern", "toml")
	}
	return cmd
}

func (c *CLI) runQuery(ctx context.Context, input string, q *queryOpts) error {
	logger := loggerFromContext(ctx)

	if q.patternFile != "" {
		data, err := os.ReadFile(q.patternFile)
		if err != nil {
			return fmt.Errorf("read pattern: %w", err)
		}
		q.opts.Pattern = string(data)
	}
	q.opts.Formats = splitList(q.formats)
	q.opts.Logger = logger
	if err := q.opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	n, err := c.loadNetwork(ctx, input)
	if err != nil {
		return err
	}
	logger.Debug("loaded network", "network", n.Name, "entities", n.Len(), "interactions", len(n.Interactions()))

	runner, err := c.newRunner(ctx, q.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %s on %s...", q.opts.Algorithm, n.Name))
	spinner.Start()
	res, err := runner.Execute(ctx, n, q.opts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("%s on %s failed", q.opts.Algorithm, n.Name))
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Ran %s on %s", q.opts.Algorithm, n.Name))

	for _, key := range res.Missing {
		printWarning("%s is not in network %s", key, n.Name)
	}
	if res.Truncated {
		printWarning("stopped after %d matches", len(res.Matches))
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheHit)

	if q.interactive {
		if err := browseMatches(ctx, res); err != nil {
			return err
		}
	}
	return writeArtifacts(ctx, res, q.opts.Formats, q.output, n.Name)
}

// loadNetwork reads input as a network file if it exists and otherwise
// loads the stored network of that name.
func (c *CLI) loadNetwork(ctx context.Context, input string) (*network.Network, error) {
	info, err := os.Stat(input)
	if err == nil && !info.IsDir() {
		return pqio.ImportNetwork(input)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := pqerrors.ValidateName(input); err != nil {
		return nil, fmt.Errorf("%s is neither a network file nor a stored network: %w", input, err)
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Load(ctx, input)
}

// writeArtifacts writes each rendered format. A single text format without
// an output path goes to stdout; otherwise files are named after output,
// or after the network and algorithm.
func writeArtifacts(ctx context.Context, res *pipeline.Result, formats []string, output, name string) error {
	logger := loggerFromContext(ctx)

	if len(formats) == 1 {
		format := formats[0]
		if output == "" && (format == pipeline.FormatJSON || format == pipeline.FormatDOT) {
			_, err := os.Stdout.Write(res.Artifacts[format])
			return err
		}
		if output != "" && !hasFormatExt(output) {
			output += "." + format
		}
		if output == "" {
			output = defaultBase(name, res.Algorithm) + "." + format
		}
		return writeFile(logger, output, res.Artifacts[format])
	}

	base := basePath(output, name, res.Algorithm)
	for _, format := range formats {
		if err := writeFile(logger, base+"."+format, res.Artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(logger *log.Logger, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Debug("wrote artifact", "path", path, "bytes", len(data))
	printFile(path)
	return nil
}

func hasFormatExt(path string) bool {
	return pipeline.ValidFormats[strings.TrimPrefix(filepath.Ext(path), ".")]
}

// basePath derives the base output path for multiple formats. Known format
// extensions on output are stripped.
func basePath(output, name, algorithm string) string {
	if output == "" {
		return defaultBase(name, algorithm)
	}
	if hasFormatExt(output) {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func defaultBase(name, algorithm string) string {
	if name == "" || pqerrors.ValidateName(name) != nil {
		name = "network"
	}
	return name + "-" + algorithm
}

// browseMatches opens the match browser for a search result.
func browseMatches(ctx context.Context, res *pipeline.Result) error {
	if res.Algorithm != pipeline.AlgorithmSearch || len(res.Matches) == 0 {
		printInfo("No matches to browse")
		return nil
	}
	final, err := tea.NewProgram(NewMatchBrowserModel(res), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("match browser: %w", err)
	}
	if m, ok := final.(MatchBrowserModel); ok && m.Selected != nil {
		printKeyValue("match", strings.Join(m.Selected, " "))
	}
	return nil
}
