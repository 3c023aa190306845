// Package exprs evaluates the deferred scalars of a merged configuration
// tree: env("NAME"[, "default"]) lookups and !expr expressions.
//
// Expressions use HCL expression syntax and run in a closed evaluation
// context. The only bindings are the injected environment snapshot (as the
// `env` object) and the env() function; arithmetic, comparisons,
// conditionals and string templates come with the syntax. There is no
// access to the host process beyond the snapshot.
package exprs

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/vk/strata/internal/ctyconv"
	"github.com/vk/strata/internal/value"
)

// Snapshot is a read-only capture of environment variables. Evaluation
// reads only the snapshot and never mutates the process environment, so
// resolution stays a pure function of its inputs.
type Snapshot map[string]string

// FromOS captures the current process environment.
func FromOS() Snapshot {
	snap := make(Snapshot)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			snap[k] = v
		}
	}
	return snap
}

// Lookup returns the variable's value and whether it is set.
func (s Snapshot) Lookup(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

var envCallRE = regexp.MustCompile(`^env\(\s*"([^"]*)"\s*(?:,\s*"([^"]*)"\s*)?\)$`)

// IsEnvCall reports whether a string scalar is the literal-call form
// env("NAME") or env("NAME", "default").
func IsEnvCall(raw string) bool {
	return envCallRE.MatchString(raw)
}

// ParseEnvCall splits the literal-call form into variable name and default.
func ParseEnvCall(raw string) (name, fallback string, ok bool) {
	m := envCallRE.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Evaluate replaces every tagged scalar in the tree with its evaluated
// literal value. It runs once, after all structural merging, so split-file
// expressions observe the same snapshot as root-file expressions. An
// env-lookup never fails; an expression failure aborts evaluation.
func Evaluate(v value.Value, snap Snapshot) (value.Value, error) {
	return value.TransformLeaves(v, func(leaf value.Value) (value.Value, error) {
		if leaf.Kind() != value.KindTagged {
			return leaf, nil
		}
		switch leaf.Tag() {
		case value.TagEnvLookup:
			name, fallback, ok := ParseEnvCall(leaf.Raw())
			if !ok {
				// The parser only tags matching scalars; fall back to the
				// raw text if one slips through.
				return value.StringVal(leaf.Raw()), nil
			}
			if v, set := snap.Lookup(name); set && v != "" {
				return value.StringVal(v), nil
			}
			return value.StringVal(fallback), nil
		case value.TagExpr:
			return evalExpr(leaf.Raw(), snap)
		default:
			return value.Value{}, fmt.Errorf("unsupported scalar tag %q", leaf.Tag())
		}
	})
}

func evalExpr(src string, snap Snapshot) (value.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<expr>", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return value.Value{}, fmt.Errorf("Failed to evaluate expression %q: %s", src, diags.Error())
	}
	result, diags := expr.Value(evalContext(snap))
	if diags.HasErrors() {
		return value.Value{}, fmt.Errorf("Failed to evaluate expression %q: %s", src, diags.Error())
	}
	out, err := ctyconv.FromCty(result)
	if err != nil {
		return value.Value{}, fmt.Errorf("Failed to evaluate expression %q: %s", src, err)
	}
	return out, nil
}

// evalContext builds the closed scope expressions run in: the snapshot as
// the `env` object plus the env() function.
func evalContext(snap Snapshot) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": snapObject(snap)},
		Functions: map[string]function.Function{"env": envFunc(snap)},
	}
}

func snapObject(snap Snapshot) cty.Value {
	if len(snap) == 0 {
		return cty.EmptyObjectVal
	}
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make(map[string]cty.Value, len(keys))
	for _, k := range keys {
		attrs[k] = cty.StringVal(snap[k])
	}
	return cty.ObjectVal(attrs)
}

func envFunc(snap Snapshot) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		VarParam: &function.Parameter{Name: "default", Type: cty.String},
		Type:     function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			name := args[0].AsString()
			if v, ok := snap.Lookup(name); ok && v != "" {
				return cty.StringVal(v), nil
			}
			if len(args) > 1 {
				return args[1], nil
			}
			return cty.StringVal(""), nil
		},
	})
}
