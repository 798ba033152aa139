package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathquery/pkg/buildinfo"
	"github.com/matzehuels/pathquery/pkg/pipeline"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Query and pattern-match biological interaction networks",
		Long: `pathquery runs graph queries on directed, signed interaction networks:
neighborhoods, paths of interest, common upstream/downstream regulators and
pattern searches, with optional complex completion. Results are written as
JSON, DOT, SVG, PNG or PDF, or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pathquery/config.toml)")

	for _, algorithm := range []string{
		pipeline.AlgorithmNeighborhood, pipeline.AlgorithmPaths, pipeline.AlgorithmBetween,
		pipeline.AlgorithmCommon, pipeline.AlgorithmSearch,
	} {
		root.AddCommand(c.queryCommand(algorithm))
	}
	root.AddCommand(c.networksCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
