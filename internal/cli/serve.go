package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"diagramkit/internal/api"
	"diagramkit/pkg/config"
	"diagramkit/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string // optional TOML config file
	addr       string // listen address override
}

// serveCommand creates the serve command that runs the HTTP API server.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes the detection and translation pipeline over HTTP. Settings
come from a TOML config file, a .env file, and DIAGRAMKIT_* environment
variables; flags override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.SetLogLevel(level)
	}

	ctx := cmd.Context()
	store, err := cfg.OpenCache(ctx)
	if err != nil {
		return fmt.Errorf("open cache backend %q: %w", cfg.Cache.Backend, err)
	}
	defer store.Close()

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend)

	runner := pipeline.NewRunner(store, nil, cfg.Cache.TTL.Std())
	return api.NewServer(cfg, runner, c.Logger).ListenAndServe(ctx)
}
