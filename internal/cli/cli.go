// Package cli implements the seqdia command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdia/pkg/buildinfo"
	"github.com/matzehuels/seqdia/pkg/cache"
	"github.com/matzehuels/seqdia/pkg/engine"
	"github.com/matzehuels/seqdia/pkg/render/nodelink"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "seqdia"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level engine, cache and
// session events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "seqdia renders text into sequence diagrams",
		Long:         `seqdia turns a small text language into hand-drawn sequence diagrams. It serves a live editor, edits in the terminal, and renders files from the command line.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seqdia/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the render cache")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine builds an engine backed by the configured cache, or by backend
// when the configuration names none. The caller closes the returned cache.
func (c *CLI) newEngine(ctx context.Context, cfg *Config, backend string, opts ...engine.Option) (*engine.Engine, cache.Cache, error) {
	store, err := c.openCache(ctx, cfg.cacheConfig(backend))
	if err != nil {
		return nil, nil, err
	}

	base := []engine.Option{
		engine.WithCache(store),
		engine.WithKeyer(cache.NewScopedKeyer(nil, buildinfo.Version+":"+cfg.Render.styleKey()+":")),
		engine.WithLogger(c.Logger),
		engine.WithView(ViewNodeLink, nodeLinkView(nodelink.Options{})),
		engine.WithView(ViewNodeLinkDetailed, nodeLinkView(nodelink.Options{Detailed: true})),
		engine.WithSketchOptions(cfg.sketchOptions()...),
	}
	if cfg.Cache.TTL > 0 {
		base = append(base, engine.WithTTL(cfg.Cache.TTL))
	}
	return engine.New(append(base, opts...)...), store, nil
}

// openCache opens the configured backend. A backend that cannot be reached
// degrades to no caching; rendering never depends on it.
func (c *CLI) openCache(ctx context.Context, cc cache.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, cc)
	if err != nil {
		if errors.Is(err, cache.ErrUnavailable) {
			c.Logger.Warn("cache unavailable, continuing without it", "backend", cc.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	c.Logger.Debug("cache opened", "backend", cc.Backend)
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/seqdia/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/seqdia/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
