package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdia/internal/server"
	"github.com/matzehuels/seqdia/pkg/cache"
)

// serveCommand creates the serve command, which runs the browser editor.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		baseURL string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live editor and the render API",
		Long: `Serve the live editor and the render API.

The editor page renders on every keystroke over a websocket and keeps the
current diagram in the URL fragment, so the address bar is always a share
link. The JSON API renders and decodes diagrams for other tools.

Rendered diagrams are cached in memory unless [cache] backend selects file,
redis or mongo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if baseURL != "" {
				cfg.Server.BaseURL = baseURL
			}
			if backend != "" {
				cfg.Cache.Backend = backend
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default localhost:8080)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "public editor URL used in share links")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: memory (default), null, file, redis, mongo")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *Config) error {
	eng, store, err := c.newEngine(ctx, cfg, cache.BackendMemory)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer store.Close()

	sc := cfg.serverConfig()
	srv := server.New(eng, sc, server.WithLogger(c.Logger))

	printStatus(statusOK, "Editor listening")
	printField("Address", styleLink.Render("http://"+sc.Addr))
	if sc.BaseURL != "" {
		printField("Share links", sc.BaseURL)
	}

	err = srv.Run(ctx)
	if ctx.Err() != nil {
		printStatus(statusInfo, "Shut down")
		return nil
	}
	return err
}
