package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/strata/internal/ctxlog"
	"github.com/vk/strata/internal/fsutil"
	"github.com/vk/strata/internal/resolver"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath  string // root YAML document; empty triggers discovery
	Environment string // active environment name; empty uses the override variable, then "default"
	Key         string // optional dotted path to print instead of the whole tree

	Format    string // "yaml" or "json"
	LogFormat string
	LogLevel  string
}

// NewConfig validates an application configuration.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Format {
	case "", "yaml", "json":
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'yaml' or 'json'", cfg.Format)
	}
	if cfg.Format == "" {
		cfg.Format = "yaml"
	}
	return &cfg, nil
}

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
}

// New constructs the application with its own isolated logger. Logs go to
// errW so rendered configuration on outW stays machine-readable.
func New(outW, errW io.Writer, cfg *Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, errW),
	}
}

// Run resolves the configuration and renders it.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	path := cfg.ConfigPath
	if path == "" {
		found, ok := fsutil.DefaultConfigFile(".")
		if !ok {
			return errors.New("no configuration file given and no config.yml in the working directory")
		}
		a.logger.Debug("Discovered configuration file.", "path", found)
		path = found
	}

	resolved, err := resolver.Resolve(ctx, path, resolver.Options{Environment: cfg.Environment})
	if err != nil {
		return err
	}

	if cfg.Key != "" {
		v, ok := resolved.Get(cfg.Key)
		if !ok {
			return fmt.Errorf("no value at '%s' in %s", cfg.Key, resolved.Path())
		}
		return render(a.outW, cfg.Format, v.Interface())
	}
	return render(a.outW, cfg.Format, resolved.Root().Interface())
}
