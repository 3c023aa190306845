package resolver

import (
	"fmt"

	"github.com/vk/strata/internal/settings"
	"github.com/vk/strata/internal/value"
	"github.com/vk/strata/internal/yamldoc"
)

// selectEnvironment picks the document's default section and overlays the
// active environment section on top of it.
//
// A top-level mapping containing the "default" key is environment-wrapped;
// any other document is flat, meaning the whole document is the default
// section and no environment overlay is possible. Split files go through
// the same selection with the same active environment as the root.
func (rc *resolution) selectEnvironment(doc yamldoc.Document, isRoot bool) (value.Value, error) {
	v := doc.Value
	if v.Kind() != value.KindMapping || !v.Has(DefaultEnvironment) {
		if isRoot && v.IsNull() {
			return value.Value{}, fmt.Errorf("%s has no 'default' environment", doc.Path)
		}
		return v, nil
	}

	def, _ := v.Get(DefaultEnvironment)
	if def.IsNull() {
		if isRoot {
			return value.Value{}, fmt.Errorf("%s has no 'default' environment", doc.Path)
		}
		// A split file with an empty default still contributes its
		// environment overlays.
		def = value.MapVal()
	}

	if rc.environment == DefaultEnvironment {
		return def, nil
	}
	section, ok := v.Get(rc.environment)
	if !ok {
		rc.warn(settings.WarnUnknownEnvironment, fmt.Sprintf(
			"Environment '%s' not found in %s, using 'default'", rc.environment, doc.Path))
		return def, nil
	}
	if section.IsNull() {
		// An empty environment section overrides nothing.
		return def, nil
	}
	return value.Merge(def, section), nil
}
