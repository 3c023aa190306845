package exprs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/strata/internal/exprs"
	"github.com/vk/strata/internal/value"
)

func TestParseEnvCall(t *testing.T) {
	t.Parallel()

	name, fallback, ok := exprs.ParseEnvCall(`env("HOME")`)
	require.True(t, ok)
	require.Equal(t, "HOME", name)
	require.Empty(t, fallback)

	name, fallback, ok = exprs.ParseEnvCall(`env("DB_HOST", "localhost")`)
	require.True(t, ok)
	require.Equal(t, "DB_HOST", name)
	require.Equal(t, "localhost", fallback)

	// Whitespace inside the call is tolerated.
	_, _, ok = exprs.ParseEnvCall(`env( "A" , "b" )`)
	require.True(t, ok)

	for _, notACall := range []string{
		`env(HOME)`,
		`environ("HOME")`,
		`prefix env("HOME")`,
		`env("HOME") suffix`,
		`env()`,
	} {
		require.False(t, exprs.IsEnvCall(notACall), "should not match: %s", notACall)
	}
}

func TestEvaluate_EnvLookup(t *testing.T) {
	t.Parallel()

	snap := exprs.Snapshot{"SET_VAR": "set-value", "EMPTY_VAR": ""}

	tree := value.MapVal(
		value.Pair{Key: "set", Value: value.TaggedVal(value.TagEnvLookup, `env("SET_VAR")`)},
		value.Pair{Key: "unset", Value: value.TaggedVal(value.TagEnvLookup, `env("UNSET_VAR")`)},
		value.Pair{Key: "unset_default", Value: value.TaggedVal(value.TagEnvLookup, `env("UNSET_VAR", "fallback")`)},
		value.Pair{Key: "empty_default", Value: value.TaggedVal(value.TagEnvLookup, `env("EMPTY_VAR", "fallback")`)},
	)

	out, err := exprs.Evaluate(tree, snap)
	require.NoError(t, err)

	get := func(key string) string {
		v, ok := out.Get(key)
		require.True(t, ok)
		s, ok := v.AsString()
		require.True(t, ok)
		return s
	}

	require.Equal(t, "set-value", get("set"))
	require.Equal(t, "", get("unset"))
	require.Equal(t, "fallback", get("unset_default"))
	// An empty variable counts as unset for lookup purposes.
	require.Equal(t, "fallback", get("empty_default"))
}

func TestEvaluate_Expressions(t *testing.T) {
	t.Parallel()

	snap := exprs.Snapshot{"WORKERS": "4"}

	tree := value.MapVal(
		value.Pair{Key: "arithmetic", Value: value.TaggedVal(value.TagExpr, `2 + 2`)},
		value.Pair{Key: "conditional", Value: value.TaggedVal(value.TagExpr, `1 > 0 ? "yes" : "no"`)},
		value.Pair{Key: "env_traversal", Value: value.TaggedVal(value.TagExpr, `env.WORKERS`)},
		value.Pair{Key: "env_call", Value: value.TaggedVal(value.TagExpr, `env("MISSING", "fallback")`)},
		value.Pair{Key: "template", Value: value.TaggedVal(value.TagExpr, `"host-${env.WORKERS}"`)},
	)

	out, err := exprs.Evaluate(tree, snap)
	require.NoError(t, err)

	av, _ := out.Get("arithmetic")
	i, ok := av.AsInt()
	require.True(t, ok)
	require.EqualValues(t, 4, i)

	cv, _ := out.Get("conditional")
	s, _ := cv.AsString()
	require.Equal(t, "yes", s)

	tv, _ := out.Get("env_traversal")
	s, _ = tv.AsString()
	require.Equal(t, "4", s)

	ev, _ := out.Get("env_call")
	s, _ = ev.AsString()
	require.Equal(t, "fallback", s)

	pv, _ := out.Get("template")
	s, _ = pv.AsString()
	require.Equal(t, "host-4", s)
}

func TestEvaluate_ExpressionFailureIsFatal(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		`undefined_function()`,
		`env.NO_SUCH_VARIABLE`,
		`1 +`, // syntax error
	} {
		tree := value.SeqVal(value.TaggedVal(value.TagExpr, src))
		_, err := exprs.Evaluate(tree, exprs.Snapshot{})
		require.Error(t, err, "expression should fail: %s", src)
		require.Contains(t, err.Error(), "Failed to evaluate expression")
		require.Contains(t, err.Error(), src)
	}
}

func TestEvaluate_LeavesLiteralsAlone(t *testing.T) {
	t.Parallel()

	tree := value.MapVal(
		value.Pair{Key: "s", Value: value.StringVal("plain")},
		value.Pair{Key: "n", Value: value.IntVal(1)},
		value.Pair{Key: "nul", Value: value.NullVal()},
	)

	out, err := exprs.Evaluate(tree, exprs.Snapshot{})
	require.NoError(t, err)
	require.True(t, value.Equal(tree, out))
}

func TestFromOS_CapturesProcessEnvironment(t *testing.T) {
	t.Setenv("STRATA_TEST_SNAPSHOT_VAR", "captured")

	snap := exprs.FromOS()
	v, ok := snap.Lookup("STRATA_TEST_SNAPSHOT_VAR")
	require.True(t, ok)
	require.Equal(t, "captured", v)
}
