package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/strata/internal/value"
)

func TestValue_ZeroValueIsNull(t *testing.T) {
	t.Parallel()

	var v value.Value
	require.Equal(t, value.KindNull, v.Kind())
	require.True(t, v.IsNull())
}

func TestValue_ScalarAccessors(t *testing.T) {
	t.Parallel()

	b, ok := value.BoolVal(true).AsBool()
	require.True(t, ok)
	require.True(t, b)

	s, ok := value.StringVal("hello").AsString()
	require.True(t, ok)
	require.Equal(t, "hello", s)

	i, ok := value.IntVal(42).AsInt()
	require.True(t, ok)
	require.EqualValues(t, 42, i)

	f, ok := value.FloatVal(1.5).AsFloat()
	require.True(t, ok)
	require.Equal(t, 1.5, f)

	// A fractional number is not an integer.
	_, ok = value.FloatVal(1.5).AsInt()
	require.False(t, ok)

	// Kind mismatches report not-ok, not zero values masquerading as data.
	_, ok = value.StringVal("true").AsBool()
	require.False(t, ok)
}

func TestNumberVal_KeepsOriginalText(t *testing.T) {
	t.Parallel()

	v, err := value.NumberVal("5432")
	require.NoError(t, err)
	require.EqualValues(t, int64(5432), v.Interface())

	v, err = value.NumberVal("2.5")
	require.NoError(t, err)
	require.Equal(t, 2.5, v.Interface())

	_, err = value.NumberVal("not-a-number")
	require.Error(t, err)
}

func TestMapBuilder_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	b := value.NewMapBuilder()
	b.Set("zulu", value.IntVal(1))
	b.Set("alpha", value.IntVal(2))
	b.Set("mike", value.IntVal(3))
	b.Set("zulu", value.IntVal(4)) // replacement keeps position

	m := b.Value()
	require.Equal(t, []string{"zulu", "alpha", "mike"}, m.Keys())

	v, ok := m.Get("zulu")
	require.True(t, ok)
	i, _ := v.AsInt()
	require.EqualValues(t, 4, i)
}

func TestValue_SequenceAccess(t *testing.T) {
	t.Parallel()

	seq := value.SeqVal(value.StringVal("a"), value.StringVal("b"))
	require.Equal(t, 2, seq.Len())

	s, _ := seq.Index(1).AsString()
	require.Equal(t, "b", s)
	require.True(t, seq.Index(5).IsNull())
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a := value.MapVal(
		value.Pair{Key: "x", Value: value.IntVal(1)},
		value.Pair{Key: "y", Value: value.SeqVal(value.BoolVal(true))},
	)
	// Same entries, different declaration order: still equal.
	b := value.MapVal(
		value.Pair{Key: "y", Value: value.SeqVal(value.BoolVal(true))},
		value.Pair{Key: "x", Value: value.IntVal(1)},
	)
	require.True(t, value.Equal(a, b))

	c := value.MapVal(value.Pair{Key: "x", Value: value.IntVal(2)})
	require.False(t, value.Equal(a, c))

	// Sequence order is significant.
	require.False(t, value.Equal(
		value.SeqVal(value.IntVal(1), value.IntVal(2)),
		value.SeqVal(value.IntVal(2), value.IntVal(1)),
	))

	require.True(t, value.Equal(value.NullVal(), value.NullVal()))
	require.False(t, value.Equal(value.NullVal(), value.StringVal("")))

	require.True(t, value.Equal(
		value.TaggedVal(value.TagExpr, "1 + 1"),
		value.TaggedVal(value.TagExpr, "1 + 1"),
	))
	require.False(t, value.Equal(
		value.TaggedVal(value.TagExpr, "1 + 1"),
		value.TaggedVal(value.TagEnvLookup, "1 + 1"),
	))
}

func TestInterface_PlainGoValues(t *testing.T) {
	t.Parallel()

	m := value.MapVal(
		value.Pair{Key: "port", Value: value.IntVal(5432)},
		value.Pair{Key: "ratio", Value: value.FloatVal(0.5)},
		value.Pair{Key: "name", Value: value.StringVal("db")},
		value.Pair{Key: "tags", Value: value.SeqVal(value.StringVal("a"))},
		value.Pair{Key: "empty", Value: value.NullVal()},
	)

	require.Equal(t, map[string]any{
		"port":  int64(5432),
		"ratio": 0.5,
		"name":  "db",
		"tags":  []any{"a"},
		"empty": nil,
	}, m.Interface())
}
