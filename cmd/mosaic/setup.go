package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/config"
	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/domain"
)

// loadConfig reads the configuration named by --config, applying --log-level.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// newLogger writes to w at the configured level. A nil w discards everything.
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		return logging.NewNop(), nil
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(w, level), nil
}

// newEngine builds the engine the configuration describes.
func newEngine(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) *mosaic.Engine {
	return mosaic.New(
		mosaic.WithLogger(logger),
		mosaic.WithLifecycleHooks(hooks),
		mosaic.WithDefaultTool(cfg.DefaultTool()),
		mosaic.WithCacheKeying(cfg.CacheKeying()),
	)
}
