// Package config loads jobcanvas configuration from a TOML file.
//
// Configuration is optional: every field has a working default, and a missing
// config file is not an error. The default location is
// ~/.config/jobcanvas/config.toml, overridable per invocation.
//
//	cfg, err := config.Load("")
//	ed := editor.New(w, cfg.EditorOptions())
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/shwetalj/jobcanvas/pkg/canvas"
	"github.com/shwetalj/jobcanvas/pkg/editor"
	"github.com/shwetalj/jobcanvas/pkg/layout"
)

// Config is the full application configuration.
type Config struct {
	Canvas    CanvasConfig    `toml:"canvas"`
	History   HistoryConfig   `toml:"history"`
	Layout    LayoutConfig    `toml:"layout"`
	Store     StoreConfig     `toml:"store"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Server    ServerConfig    `toml:"server"`
}

// CanvasConfig tunes the viewport and node geometry.
type CanvasConfig struct {
	MinZoom    float64 `toml:"min_zoom"`
	MaxZoom    float64 `toml:"max_zoom"`
	FitZoomCap float64 `toml:"fit_zoom_cap"`
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
}

// HistoryConfig tunes the undo stack.
type HistoryConfig struct {
	Capacity   int `toml:"capacity"`
	DebounceMS int `toml:"debounce_ms"`
}

// LayoutConfig tunes auto-arrange.
type LayoutConfig struct {
	Strategy           string  `toml:"strategy"`
	Width              float64 `toml:"width"`
	Height             float64 `toml:"height"`
	LayerSpacing       float64 `toml:"layer_spacing"`
	MinSpacing         float64 `toml:"min_spacing"`
	OrderingIterations int     `toml:"ordering_iterations"`
	OverlapIterations  int     `toml:"overlap_iterations"`
	Seed               uint64  `toml:"seed"`
}

// StoreConfig selects the workflow persistence backend.
type StoreConfig struct {
	// Backend is "file", "memory" or "mongo".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory; empty uses the default.
	Dir string `toml:"dir"`

	// MongoURI, MongoDatabase and MongoCollection configure the mongo
	// backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	// Backend is "memory" or "redis".
	Backend string `toml:"backend"`

	// RedisAddr and Scope configure the redis backend.
	RedisAddr string `toml:"redis_addr"`
	Scope     string `toml:"scope"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Canvas: CanvasConfig{
			MinZoom:    canvas.DefaultMinZoom,
			MaxZoom:    canvas.DefaultMaxZoom,
			FitZoomCap: canvas.DefaultFitZoomCap,
			NodeWidth:  layout.DefaultNodeWidth,
			NodeHeight: layout.DefaultNodeHeight,
		},
		History: HistoryConfig{
			Capacity:   editor.DefaultHistoryCapacity,
			DebounceMS: int(editor.DefaultHistoryDebounce / time.Millisecond),
		},
		Layout: LayoutConfig{
			Strategy:           string(layout.StrategySmart),
			Width:              layout.DefaultWidth,
			Height:             layout.DefaultHeight,
			LayerSpacing:       layout.DefaultLayerSpacing,
			MinSpacing:         layout.DefaultMinSpacing,
			OrderingIterations: layout.DefaultOrderingIterations,
			OverlapIterations:  layout.DefaultOverlapIterations,
			Seed:               layout.DefaultSeed,
		},
		Store: StoreConfig{
			Backend: "file",
		},
		Clipboard: ClipboardConfig{
			Backend: "memory",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "jobcanvas", "config.toml"), nil
}

// Load reads a TOML config file, layering it over the defaults. An empty path
// uses [DefaultPath]; a missing file returns the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Canvas.MinZoom <= 0 {
		return fmt.Errorf("canvas.min_zoom must be positive, got %g", c.Canvas.MinZoom)
	}
	if c.Canvas.MaxZoom < c.Canvas.MinZoom {
		return fmt.Errorf("canvas.max_zoom %g below canvas.min_zoom %g", c.Canvas.MaxZoom, c.Canvas.MinZoom)
	}
	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}
	if err := layout.ValidateStrategy(layout.Strategy(c.Layout.Strategy)); err != nil {
		return err
	}
	switch c.Store.Backend {
	case "file", "memory", "mongo":
	default:
		return fmt.Errorf("store.backend must be file, memory or mongo, got %q", c.Store.Backend)
	}
	switch c.Clipboard.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("clipboard.backend must be memory or redis, got %q", c.Clipboard.Backend)
	}
	return nil
}

// EditorOptions maps the config onto editor options.
func (c *Config) EditorOptions() editor.Options {
	return editor.Options{
		History: editor.HistoryOptions{
			Capacity: c.History.Capacity,
			Debounce: time.Duration(c.History.DebounceMS) * time.Millisecond,
		},
		Viewport: canvas.Options{
			MinZoom:    c.Canvas.MinZoom,
			MaxZoom:    c.Canvas.MaxZoom,
			FitZoomCap: c.Canvas.FitZoomCap,
		},
		NodeWidth:  c.Canvas.NodeWidth,
		NodeHeight: c.Canvas.NodeHeight,
	}
}

// LayoutOptions maps the config onto layout options.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Strategy:           layout.Strategy(c.Layout.Strategy),
		Width:              c.Layout.Width,
		Height:             c.Layout.Height,
		NodeWidth:          c.Canvas.NodeWidth,
		NodeHeight:         c.Canvas.NodeHeight,
		LayerSpacing:       c.Layout.LayerSpacing,
		MinSpacing:         c.Layout.MinSpacing,
		OrderingIterations: c.Layout.OrderingIterations,
		OverlapIterations:  c.Layout.OverlapIterations,
		Seed:               c.Layout.Seed,
	}
}
