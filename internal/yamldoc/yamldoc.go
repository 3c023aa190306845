// Package yamldoc loads YAML configuration documents from disk and parses
// them into the generic value tree.
//
// Parsing works on the yaml.v3 node representation rather than plain Go
// values so that the !expr tag survives as a tagged scalar instead of being
// rejected or evaluated early. String scalars in the literal-call form
// env("NAME") are likewise captured as tagged scalars; both are evaluated
// only after all structural merging is complete.
package yamldoc

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/strata/internal/exprs"
	"github.com/vk/strata/internal/value"
)

// Document is the parsed value of exactly one file, tagged with the path it
// was loaded from.
type Document struct {
	Value value.Value
	Path  string
}

// Load reads and parses the file at path. The path is used as-is; callers
// resolve relative references against their base directory first.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("configuration file %s not found", path)
		}
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse converts YAML text into a Document. Malformed input produces an
// error carrying the source path.
func Parse(src []byte, sourcePath string) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return Document{}, fmt.Errorf("Failed to parse %s: %v", sourcePath, err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return Document{Value: value.NullVal(), Path: sourcePath}, nil
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		// Empty input decodes to a zero node.
		return Document{Value: value.NullVal(), Path: sourcePath}, nil
	}
	v, err := convertNode(node)
	if err != nil {
		return Document{}, fmt.Errorf("Failed to parse %s: %v", sourcePath, err)
	}
	return Document{Value: v, Path: sourcePath}, nil
}

func convertNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convertNode(n.Alias)
	case yaml.ScalarNode:
		return convertScalar(n)
	case yaml.SequenceNode:
		items := make([]value.Value, len(n.Content))
		for i, c := range n.Content {
			item, err := convertNode(c)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = item
		}
		return value.SeqVal(items...), nil
	case yaml.MappingNode:
		b := value.NewMapBuilder()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind == yaml.AliasNode {
				keyNode = keyNode.Alias
			}
			if keyNode.Kind != yaml.ScalarNode {
				return value.Value{}, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
			}
			v, err := convertNode(valNode)
			if err != nil {
				return value.Value{}, err
			}
			// Duplicate keys: the last occurrence wins.
			b.Set(keyNode.Value, v)
		}
		return b.Value(), nil
	default:
		return value.Value{}, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func convertScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!expr":
		return value.TaggedVal(value.TagExpr, n.Value), nil
	case "!!null":
		return value.NullVal(), nil
	case "!!bool":
		switch strings.ToLower(n.Value) {
		case "true":
			return value.BoolVal(true), nil
		case "false":
			return value.BoolVal(false), nil
		default:
			return value.Value{}, fmt.Errorf("line %d: invalid boolean %q", n.Line, n.Value)
		}
	case "!!int":
		return value.NumberVal(n.Value)
	case "!!float":
		switch strings.ToLower(n.Value) {
		case ".inf", "+.inf":
			return value.FloatVal(math.Inf(1)), nil
		case "-.inf":
			return value.FloatVal(math.Inf(-1)), nil
		case ".nan":
			return value.FloatVal(math.NaN()), nil
		}
		return value.NumberVal(n.Value)
	default:
		// Plain strings, quoted strings, timestamps, and any tag this
		// engine does not know all stay strings.
		if exprs.IsEnvCall(n.Value) {
			return value.TaggedVal(value.TagEnvLookup, n.Value), nil
		}
		return value.StringVal(n.Value), nil
	}
}
