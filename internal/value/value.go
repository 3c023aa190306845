// Package value defines the immutable tree representation shared by every
// stage of configuration resolution: parsing, environment merging,
// split-file inlining, and expression evaluation all operate on Value.
//
// A Value is a tagged union of null, bool, number, string, sequence,
// mapping, and tagged scalar. Mappings preserve insertion order so that
// downstream passes can process keys in declaration order. Values are never
// mutated after construction; every transformation returns a new tree.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant of the union a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindTagged
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindTagged:
		return "tagged scalar"
	default:
		return "unknown"
	}
}

// Tag identifies the deferred computation a tagged scalar represents.
type Tag string

const (
	// TagExpr marks a scalar holding an expression to be evaluated after
	// all structural merging is complete.
	TagExpr Tag = "expr"

	// TagEnvLookup marks a scalar holding an env("NAME"[, "default"])
	// environment-variable lookup.
	TagEnvLookup Tag = "env-lookup"
)

// Value is one node of a configuration tree. The zero value is null.
type Value struct {
	kind    Kind
	boolVal bool
	numRaw  string
	numVal  float64
	strVal  string // string payload, or the raw text of a tagged scalar
	seq     []Value
	keys    []string
	entries map[string]Value
	tag     Tag
}

// NullVal returns the null value.
func NullVal() Value { return Value{kind: KindNull} }

// BoolVal returns a boolean value.
func BoolVal(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// IntVal returns a number value holding an integer.
func IntVal(i int64) Value {
	return Value{kind: KindNumber, numRaw: strconv.FormatInt(i, 10), numVal: float64(i)}
}

// FloatVal returns a number value holding a float.
func FloatVal(f float64) Value {
	return Value{kind: KindNumber, numRaw: strconv.FormatFloat(f, 'g', -1, 64), numVal: f}
}

// NumberVal returns a number value parsed from its original scalar text.
// The text is retained so integers render without a decimal point.
func NumberVal(raw string) (Value, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// YAML permits bases float parsing does not (0x1A, 0o17).
		if i, ierr := strconv.ParseInt(raw, 0, 64); ierr == nil {
			return Value{kind: KindNumber, numRaw: raw, numVal: float64(i)}, nil
		}
		return Value{}, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return Value{kind: KindNumber, numRaw: raw, numVal: f}, nil
}

// StringVal returns a string value.
func StringVal(s string) Value { return Value{kind: KindString, strVal: s} }

// SeqVal returns a sequence value holding the given items.
func SeqVal(items ...Value) Value {
	seq := make([]Value, len(items))
	copy(seq, items)
	return Value{kind: KindSequence, seq: seq}
}

// TaggedVal returns a tagged scalar carrying a deferred computation.
func TaggedVal(tag Tag, raw string) Value {
	return Value{kind: KindTagged, tag: tag, strVal: raw}
}

// Pair is a single key/value entry for MapVal.
type Pair struct {
	Key   string
	Value Value
}

// MapVal returns a mapping holding the given pairs in order. A repeated key
// keeps its first position and takes the last value.
func MapVal(pairs ...Pair) Value {
	b := NewMapBuilder()
	for _, p := range pairs {
		b.Set(p.Key, p.Value)
	}
	return b.Value()
}

// Kind returns the variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload. The second result is false when the
// value is not a bool.
func (v Value) AsBool() (bool, bool) { return v.boolVal, v.kind == KindBool }

// AsString returns the string payload. The second result is false when the
// value is not a string.
func (v Value) AsString() (string, bool) { return v.strVal, v.kind == KindString }

// AsFloat returns the numeric payload. The second result is false when the
// value is not a number.
func (v Value) AsFloat() (float64, bool) { return v.numVal, v.kind == KindNumber }

// AsInt returns the numeric payload as an integer. The second result is
// false when the value is not a number or is not integral.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i := int64(v.numVal)
	if float64(i) != v.numVal {
		return 0, false
	}
	return i, true
}

// Len returns the number of items in a sequence or entries in a mapping,
// and zero for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th item of a sequence.
func (v Value) Index(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return NullVal()
	}
	return v.seq[i]
}

// Get returns the entry for key in a mapping. The second result is false
// when the value is not a mapping or has no such key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	e, ok := v.entries[key]
	return e, ok
}

// Has reports whether a mapping contains the key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the mapping's keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Tag returns the tag of a tagged scalar, and "" for every other kind.
func (v Value) Tag() Tag {
	if v.kind != KindTagged {
		return ""
	}
	return v.tag
}

// Raw returns the raw text of a tagged scalar or the original scalar text
// of a number, and "" for every other kind.
func (v Value) Raw() string {
	switch v.kind {
	case KindTagged:
		return v.strVal
	case KindNumber:
		return v.numRaw
	default:
		return ""
	}
}

// Interface converts the tree to plain Go values: nil, bool, int64 or
// float64, string, []any, and map[string]any. Tagged scalars convert to
// their raw text; a fully resolved configuration contains none.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindNumber:
		if i, ok := v.AsInt(); ok && !strings.ContainsAny(v.numRaw, ".eE") {
			return i
		}
		return v.numVal
	case KindString, KindTagged:
		return v.strVal
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.entries[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports structural equality. Mapping key order is not significant;
// sequence order is.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal == b.numVal
	case KindString:
		return a.strVal == b.strVal
	case KindTagged:
		return a.tag == b.tag && a.strVal == b.strVal
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for k, av := range a.entries {
			bv, ok := b.entries[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MapBuilder accumulates entries for a new mapping. The builder itself is
// mutable; the Value it produces is not.
type MapBuilder struct {
	keys    []string
	entries map[string]Value
}

// NewMapBuilder returns an empty builder.
func NewMapBuilder() *MapBuilder {
	return &MapBuilder{entries: make(map[string]Value)}
}

// Set inserts or replaces an entry. A replaced key keeps its original
// position.
func (b *MapBuilder) Set(key string, v Value) {
	if _, ok := b.entries[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.entries[key] = v
}

// Has reports whether the builder already holds the key.
func (b *MapBuilder) Has(key string) bool {
	_, ok := b.entries[key]
	return ok
}

// Value freezes the builder's entries into a mapping.
func (b *MapBuilder) Value() Value {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	entries := make(map[string]Value, len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	return Value{kind: KindMapping, keys: keys, entries: entries}
}
