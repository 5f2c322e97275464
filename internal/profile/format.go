package profile

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a profile file encoding.
type Format int

const (
	// FormatTOML is used for .toml files.
	FormatTOML Format = iota
	// FormatYAML is used for .yaml and .yml files.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from path's extension.
func FormatOf(path string) (Format, error) {
	switch extension(path) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Decode parses data into a store tree. Empty input is an empty tree.
func Decode(f Format, data []byte) (map[string]any, error) {
	tree := map[string]any{}
	switch f {
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return normalize(tree).(map[string]any), nil
}

// Encode serializes a store tree.
func Encode(f Format, tree map[string]any) ([]byte, error) {
	converted, err := plain(tree)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatTOML:
		return toml.Marshal(converted)
	case FormatYAML:
		return yaml.Marshal(converted)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}
