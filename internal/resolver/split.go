package resolver

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/strata/internal/fsutil"
	"github.com/vk/strata/internal/settings"
	"github.com/vk/strata/internal/value"
	"github.com/vk/strata/internal/yamldoc"
)

// looksLikeSplitRef reports whether a string value is treated as a
// reference to another YAML document: it contains a path separator or
// carries a YAML suffix. A legitimate string that happens to match is
// indistinguishable from an intended reference; there is no escaping
// mechanism.
func looksLikeSplitRef(s string) bool {
	return strings.ContainsAny(s, `/\`) ||
		strings.HasSuffix(s, ".yml") ||
		strings.HasSuffix(s, ".yaml")
}

// resolveSplits walks the tree and replaces every split reference with the
// referenced file's resolved section. baseDir is the directory of the file
// the tree came from; stack holds the canonical paths currently being
// resolved, innermost last.
func (rc *resolution) resolveSplits(v value.Value, baseDir string, stack []string) (value.Value, error) {
	switch v.Kind() {
	case value.KindSequence:
		items := make([]value.Value, v.Len())
		for i := range items {
			item, err := rc.resolveSplits(v.Index(i), baseDir, stack)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = item
		}
		return value.SeqVal(items...), nil
	case value.KindMapping:
		return rc.resolveMappingSplits(v, baseDir, stack)
	default:
		return v, nil
	}
}

func (rc *resolution) resolveMappingSplits(m value.Value, baseDir string, stack []string) (value.Value, error) {
	containing := stack[len(stack)-1]

	// Keys declared in this document always beat split-file contributions,
	// including the slots of the references themselves.
	declared := make(map[string]bool, m.Len())
	for _, k := range m.Keys() {
		declared[k] = true
	}

	b := value.NewMapBuilder()
	// contributed tracks which split file first supplied each extra key.
	contributed := make(map[string]string)

	for _, k := range m.Keys() {
		item, _ := m.Get(k)
		ref, isString := item.AsString()
		if !isString || !looksLikeSplitRef(ref) {
			resolved, err := rc.resolveSplits(item, baseDir, stack)
			if err != nil {
				return value.Value{}, err
			}
			b.Set(k, resolved)
			continue
		}

		section, path, err := rc.loadSplit(ref, baseDir, stack)
		if err != nil {
			return value.Value{}, err
		}

		if section.Kind() != value.KindMapping || !section.Has(k) {
			// Unwrapped split file: the whole section lands on the
			// reference key.
			b.Set(k, section)
			continue
		}

		// Wrapped split file: the subtree matching the reference key lands
		// on the reference, and sibling top-level keys are merged into the
		// containing mapping under conflict precedence.
		for _, ck := range section.Keys() {
			cv, _ := section.Get(ck)
			if ck == k {
				b.Set(k, cv)
				continue
			}
			if declared[ck] {
				rc.warn(settings.WarnKeyConflict, fmt.Sprintf(
					"Key '%s' is defined in both %s and split file %s; keeping the value from %s",
					ck, containing, path, containing))
				continue
			}
			if prev, taken := contributed[ck]; taken {
				rc.warn(settings.WarnKeyConflict, fmt.Sprintf(
					"Key '%s' is already defined by split file %s; ignoring the value from %s",
					ck, prev, path))
				continue
			}
			contributed[ck] = path
			b.Set(ck, cv)
		}
	}
	return b.Value(), nil
}

// loadSplit resolves one referenced file: load, parse, environment-select
// with the same active environment as the root, then resolve the file's
// own split references relative to its own directory.
func (rc *resolution) loadSplit(ref, baseDir string, stack []string) (value.Value, string, error) {
	canonical := fsutil.CanonicalJoin(baseDir, ref)
	if slices.Contains(stack, canonical) {
		chain := append(slices.Clone(stack), canonical)
		return value.Value{}, "", fmt.Errorf("Circular reference detected: %s", strings.Join(chain, " -> "))
	}

	doc, err := yamldoc.Load(canonical)
	if err != nil {
		return value.Value{}, "", err
	}
	section, err := rc.selectEnvironment(doc, false)
	if err != nil {
		return value.Value{}, "", err
	}
	resolved, err := rc.resolveSplits(section, filepath.Dir(canonical), append(slices.Clone(stack), canonical))
	if err != nil {
		return value.Value{}, "", err
	}
	return resolved, canonical, nil
}
