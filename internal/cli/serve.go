package cli

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathquery/pkg/api"
	"github.com/matzehuels/pathquery/pkg/observability"
	"github.com/matzehuels/pathquery/pkg/store"

	promhooks "github.com/matzehuels/pathquery/pkg/observability/prometheus"
)

// serveCommand runs the HTTP API over the configured store and cache.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("query-timeout") && c.cfg.Serve.QueryTimeout != "" {
				d, err := time.ParseDuration(c.cfg.Serve.QueryTimeout)
				if err != nil {
					return fmt.Errorf("serve.query_timeout: %w", err)
				}
				timeout = d
			}

			observability.Register(promhooks.New(prometheus.DefaultRegisterer))
			defer observability.Reset()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			// Loaded networks are cached next to query results.
			cached := store.Cached(st, runner.Cache, runner.Keyer, c.cfg.Store.Backend)
			defer cached.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printDetail("store: %s, cache: %s", c.cfg.Store.Backend, cacheBackend(c.cfg, noCache))
			return api.New(cached, runner, api.Config{
				Addr:         addr,
				QueryTimeout: timeout,
				Logger:       c.Logger,
			}).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "query-timeout", api.DefaultQueryTimeout, "time limit per query request")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (results cannot be fetched by id)")
	return cmd
}

func cacheBackend(cfg Config, noCache bool) string {
	if noCache {
		return backendNone
	}
	return cfg.Cache.Backend
}
