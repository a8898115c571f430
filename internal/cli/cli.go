// Package cli implements the jobcanvas command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shwetalj/jobcanvas/pkg/buildinfo"
	"github.com/shwetalj/jobcanvas/pkg/clipboard"
	"github.com/shwetalj/jobcanvas/pkg/config"
	"github.com/shwetalj/jobcanvas/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jobcanvas"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "jobcanvas",
		Short:        "Jobcanvas is a visual editor for job dependency workflows",
		Long:         `Jobcanvas edits job dependency workflows on an interactive canvas: drag jobs around, draw dependency edges, auto-arrange the graph, and export it as SVG or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/jobcanvas/config.toml)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backend Factories
// =============================================================================

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newStore builds the workflow store selected by the config. The returned
// closer disconnects backend clients and is a no-op for local backends.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), noop, nil
	case "file", "":
		s, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open workflow store: %w", err)
		}
		return s, noop, nil
	case "mongo":
		client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.Store.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		s := store.NewMongoStore(client, store.MongoOptions{
			Database:   cfg.Store.MongoDatabase,
			Collection: cfg.Store.MongoCollection,
		})
		closer := func() { _ = client.Disconnect(context.Background()) }
		return s, closer, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// newClipboard builds the clipboard port selected by the config. The redis
// backend shares copied jobs across editor processes.
func (c *CLI) newClipboard(cfg config.Config) (clipboard.Port, func()) {
	if cfg.Clipboard.Backend == "redis" && cfg.Clipboard.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Clipboard.RedisAddr})
		port := clipboard.NewRedis(client, clipboard.RedisOptions{Scope: cfg.Clipboard.Scope})
		return port, func() { _ = client.Close() }
	}
	return clipboard.NewMemory(), func() {}
}
