// Package resolver turns a root YAML document into a materialized
// configuration: it selects and merges the active environment section over
// the default section, recursively inlines split-file references with
// cycle and conflict detection, and evaluates deferred scalars.
//
// Resolution is synchronous and shares no mutable state between calls;
// every call builds its own resolution state and discards it on return.
// Nothing is cached — callers wanting caching key on (root path, active
// environment) at their own boundary.
package resolver

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/vk/strata/internal/ctxlog"
	"github.com/vk/strata/internal/exprs"
	"github.com/vk/strata/internal/fsutil"
	"github.com/vk/strata/internal/settings"
	"github.com/vk/strata/internal/yamldoc"
)

// EnvironmentVariable overrides the active environment when the caller
// passes none.
const EnvironmentVariable = "STRATA_ACTIVE_ENVIRONMENT"

// DefaultEnvironment is the section every document must anchor inheritance
// on.
const DefaultEnvironment = "default"

// Options control one resolution pass.
type Options struct {
	// Environment is the active environment name. Empty means: consult
	// EnvironmentVariable in the snapshot, then fall back to "default".
	Environment string

	// Snapshot is the environment-variable capture used for expression
	// evaluation and the environment-name fallback. Nil captures the
	// current process environment.
	Snapshot exprs.Snapshot
}

// resolution is the ephemeral state threaded through one Resolve call.
type resolution struct {
	environment string
	logger      *slog.Logger
	warnings    []settings.Warning
}

// Resolve loads the document at path and returns its materialized
// configuration. Fatal errors abort with no partial result; non-fatal
// diagnostics are logged and returned on the Config.
func Resolve(ctx context.Context, path string, opts Options) (*settings.Config, error) {
	logger := ctxlog.FromContext(ctx)

	snap := opts.Snapshot
	if snap == nil {
		snap = exprs.FromOS()
	}
	envName := opts.Environment
	if envName == "" {
		envName, _ = snap.Lookup(EnvironmentVariable)
	}
	if envName == "" {
		envName = DefaultEnvironment
	}

	canonical, err := fsutil.Canonical(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolving configuration.", "path", canonical, "environment", envName)

	rc := &resolution{environment: envName, logger: logger}

	doc, err := yamldoc.Load(canonical)
	if err != nil {
		return nil, err
	}
	section, err := rc.selectEnvironment(doc, true)
	if err != nil {
		return nil, err
	}
	merged, err := rc.resolveSplits(section, filepath.Dir(canonical), []string{canonical})
	if err != nil {
		return nil, err
	}
	final, err := exprs.Evaluate(merged, snap)
	if err != nil {
		return nil, err
	}

	logger.Debug("Configuration resolved.", "warnings", len(rc.warnings))
	return settings.New(final, canonical, envName, rc.warnings), nil
}

func (rc *resolution) warn(kind, message string) {
	rc.warnings = append(rc.warnings, settings.Warning{Kind: kind, Message: message})
	rc.logger.Warn(message)
}
