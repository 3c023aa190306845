// Package settings exposes a resolved configuration through a dotted-path
// read interface. The rest of the application — and external collaborators
// like scaffolding or database helpers — read configuration only through
// this package; nothing here re-triggers resolution.
package settings

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/strata/internal/ctyconv"
	"github.com/vk/strata/internal/value"
)

// Warning is a non-fatal diagnostic recorded during resolution, such as an
// unknown environment falling back to default or a suppressed key conflict.
type Warning struct {
	Kind    string
	Message string
}

// Warning kinds.
const (
	WarnUnknownEnvironment = "unknown-environment"
	WarnKeyConflict        = "key-conflict"
)

// legacyRoots are the historical nesting locations a bare key falls back
// to. Older configurations kept top-level concepts under these mappings;
// the accessor keeps reading them so those configurations keep working.
var legacyRoots = []string{"settings", "project"}

// Config is the immutable result of one resolution pass.
type Config struct {
	root        value.Value
	path        string
	environment string
	warnings    []Warning
}

// New wraps a fully resolved tree. The resolver is the only intended
// constructor caller.
func New(root value.Value, path, environment string, warnings []Warning) *Config {
	return &Config{root: root, path: path, environment: environment, warnings: warnings}
}

// Root returns the resolved top-level value.
func (c *Config) Root() value.Value { return c.root }

// Path returns the canonical path of the root document.
func (c *Config) Path() string { return c.path }

// Environment returns the active environment name the tree was resolved
// with.
func (c *Config) Environment() string { return c.environment }

// Warnings returns the non-fatal diagnostics recorded during resolution.
func (c *Config) Warnings() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Get looks up a dotted path. An explicit null is a present value: Get
// returns it with ok set, never substituting a default.
//
// A bare key (no dots) that is missing at the top level is additionally
// tried under the legacy nesting locations before being reported absent.
func (c *Config) Get(path string) (value.Value, bool) {
	if v, ok := walk(c.root, path); ok {
		return v, true
	}
	if !strings.Contains(path, ".") {
		for _, root := range legacyRoots {
			if nested, ok := c.root.Get(root); ok {
				if v, ok := nested.Get(path); ok {
					return v, true
				}
			}
		}
	}
	return value.Value{}, false
}

// GetDefault looks up a dotted path, returning def when the path is absent.
func (c *Config) GetDefault(path string, def value.Value) value.Value {
	if v, ok := c.Get(path); ok {
		return v
	}
	return def
}

// GetString returns the string at path.
func (c *Config) GetString(path string) (string, bool) {
	v, ok := c.Get(path)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetBool returns the boolean at path.
func (c *Config) GetBool(path string) (bool, bool) {
	v, ok := c.Get(path)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// GetInt returns the integer at path.
func (c *Config) GetInt(path string) (int64, bool) {
	v, ok := c.Get(path)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// GetFloat returns the number at path.
func (c *Config) GetFloat(path string) (float64, bool) {
	v, ok := c.Get(path)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

// Decode binds the subtree at path onto target, which must be a non-nil
// pointer. The subtree is converted through cty so the usual implicit
// conversions (number to string, tuple to slice) apply.
func (c *Config) Decode(path string, target any) error {
	v, ok := c.Get(path)
	if !ok {
		return fmt.Errorf("no value at %q in %s", path, c.path)
	}
	ctyVal, err := ctyconv.ToCty(v)
	if err != nil {
		return fmt.Errorf("decoding %q: %w", path, err)
	}
	ty, err := gocty.ImpliedType(target)
	if err != nil {
		return fmt.Errorf("decoding %q: %w", path, err)
	}
	converted, err := convert.Convert(ctyVal, ty)
	if err != nil {
		return fmt.Errorf("cannot decode %q as %s: %w", path, ty.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, target)
}

func walk(root value.Value, path string) (value.Value, bool) {
	current := root
	for _, seg := range strings.Split(path, ".") {
		next, ok := current.Get(seg)
		if !ok {
			return value.Value{}, false
		}
		current = next
	}
	return current, true
}
