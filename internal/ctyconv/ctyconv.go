// Package ctyconv bridges the configuration Value tree and the cty type
// system. Expressions evaluate to cty values, and struct decoding goes
// through cty's conversion machinery, so both directions are needed.
package ctyconv

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/strata/internal/value"
)

// ToCty converts a Value into its cty equivalent. Sequences become tuples
// and mappings become objects so heterogeneous element types are preserved.
// Tagged scalars have no cty representation and produce an error.
func ToCty(v value.Value) (cty.Value, error) {
	switch v.Kind() {
	case value.KindNull:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case value.KindBool:
		b, _ := v.AsBool()
		return cty.BoolVal(b), nil
	case value.KindNumber:
		f, _ := v.AsFloat()
		return cty.NumberFloatVal(f), nil
	case value.KindString:
		s, _ := v.AsString()
		return cty.StringVal(s), nil
	case value.KindSequence:
		if v.Len() == 0 {
			return cty.EmptyTupleVal, nil
		}
		items := make([]cty.Value, v.Len())
		for i := range items {
			item, err := ToCty(v.Index(i))
			if err != nil {
				return cty.NilVal, err
			}
			items[i] = item
		}
		return cty.TupleVal(items), nil
	case value.KindMapping:
		keys := v.Keys()
		if len(keys) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(keys))
		for _, k := range keys {
			entry, _ := v.Get(k)
			attr, err := ToCty(entry)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = attr
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("cannot convert %s to a cty value", v.Kind())
	}
}

// FromCty converts an evaluation result back into a Value. Unknown values
// cannot occur in a fully specified evaluation context and are rejected.
func FromCty(v cty.Value) (value.Value, error) {
	if v.IsNull() {
		return value.NullVal(), nil
	}
	if !v.IsKnown() {
		return value.Value{}, fmt.Errorf("expression produced an unknown value")
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.Bool):
		return value.BoolVal(v.True()), nil
	case ty.Equals(cty.Number):
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == 0 {
			return value.IntVal(i), nil
		}
		f, _ := bf.Float64()
		return value.FloatVal(f), nil
	case ty.Equals(cty.String):
		return value.StringVal(v.AsString()), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var items []value.Value
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := FromCty(ev)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, item)
		}
		return value.SeqVal(items...), nil
	case ty.IsObjectType() || ty.IsMapType():
		attrs := v.AsValueMap()
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := value.NewMapBuilder()
		for _, k := range keys {
			entry, err := FromCty(attrs[k])
			if err != nil {
				return value.Value{}, err
			}
			b.Set(k, entry)
		}
		return b.Value(), nil
	default:
		return value.Value{}, fmt.Errorf("cannot represent %s in a configuration", ty.FriendlyName())
	}
}
