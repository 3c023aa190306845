package value

// Merge deep-merges overlay over base and returns the combined tree.
//
// Two mappings merge recursively key-by-key: keys present only in the base
// are kept, keys present only in the overlay are added, and keys present in
// both merge recursively when both values are mappings. In every other case
// the overlay value replaces the base value wholesale — sequences never
// merge element-wise, and an explicit null in the overlay replaces the base
// value rather than being treated as absent.
func Merge(base, overlay Value) Value {
	if base.kind != KindMapping || overlay.kind != KindMapping {
		return overlay
	}
	b := NewMapBuilder()
	for _, k := range base.keys {
		b.Set(k, base.entries[k])
	}
	for _, k := range overlay.keys {
		ov := overlay.entries[k]
		if bv, ok := base.entries[k]; ok {
			b.Set(k, Merge(bv, ov))
			continue
		}
		b.Set(k, ov)
	}
	return b.Value()
}

// TransformLeaves applies f to every scalar leaf (null, bool, number,
// string, tagged) of the tree, rebuilding sequences and mappings around the
// results. It returns the first error from f unchanged.
func TransformLeaves(v Value, f func(Value) (Value, error)) (Value, error) {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, item := range v.seq {
			out, err := TransformLeaves(item, f)
			if err != nil {
				return Value{}, err
			}
			items[i] = out
		}
		return SeqVal(items...), nil
	case KindMapping:
		b := NewMapBuilder()
		for _, k := range v.keys {
			out, err := TransformLeaves(v.entries[k], f)
			if err != nil {
				return Value{}, err
			}
			b.Set(k, out)
		}
		return b.Value(), nil
	default:
		return f(v)
	}
}
