// Package pathstore reads and writes values in a nested key/value tree
// addressed by dot-separated paths ("audio.output.volume").
//
// The tree is a plain map[string]any whose containers are themselves
// map[string]any. The package knows nothing about settings; it is the
// storage primitive for path-mode definitions.
package pathstore

import (
	"errors"
	"strings"
)

// Errors returned by Set.
var (
	// ErrNilRoot indicates a write into a nil tree.
	ErrNilRoot = errors.New("pathstore: nil root")

	// ErrInvalidPath indicates an empty path or a path with an empty segment.
	ErrInvalidPath = errors.New("pathstore: invalid path")
)

// Separator splits path segments.
const Separator = "."

// Split returns the segments of path, or nil if any segment is empty.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, Separator)
	for _, p := range parts {
		if p == "" {
			return nil
		}
	}
	return parts
}

// Get returns the value at path.
// A non-container found before the last segment yields absent, not an error.
func Get(root map[string]any, path string) (any, bool) {
	parts := Split(path)
	if root == nil || parts == nil {
		return nil, false
	}

	current := root
	for i, part := range parts {
		val, exists := current[part]
		if !exists {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Set writes value at path, creating intermediate containers for missing or
// non-container segments.
func Set(root map[string]any, path string, value any) error {
	if root == nil {
		return ErrNilRoot
	}
	parts := Split(path)
	if parts == nil {
		return ErrInvalidPath
	}

	current := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// Delete removes the value at path. Returns true if something was removed.
func Delete(root map[string]any, path string) bool {
	parts := Split(path)
	if root == nil || parts == nil {
		return false
	}

	current := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return false
		}
		current = next
	}

	key := parts[len(parts)-1]
	if _, exists := current[key]; !exists {
		return false
	}
	delete(current, key)
	return true
}

// ApplyDefaults copies every key of defaults that is absent from root.
// Nested containers are recursed into, creating the container in root first.
// Existing values are never overwritten, so calling it twice is a no-op.
func ApplyDefaults(root, defaults map[string]any) {
	if root == nil {
		return
	}
	for key, def := range defaults {
		existing, exists := root[key]
		nested, defIsMap := def.(map[string]any)

		if !exists {
			if defIsMap {
				child := make(map[string]any, len(nested))
				root[key] = child
				ApplyDefaults(child, nested)
			} else {
				root[key] = cloneValue(def)
			}
			continue
		}

		if defIsMap {
			if child, ok := existing.(map[string]any); ok {
				ApplyDefaults(child, nested)
			}
		}
	}
}

// Replace makes dst hold a deep copy of src while keeping dst's identity.
// Hosts that hand a store to a panel use it to load a different profile.
func Replace(dst, src map[string]any) {
	if dst == nil {
		return
	}
	for key := range dst {
		delete(dst, key)
	}
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
}

// Clone returns a deep copy of the tree.
func Clone(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

// Flatten returns every leaf keyed by its full path.
func Flatten(data map[string]any) map[string]any {
	out := make(map[string]any)
	flatten(data, "", out)
	return out
}

func flatten(data map[string]any, prefix string, out map[string]any) {
	for key, val := range data {
		full := key
		if prefix != "" {
			full = prefix + Separator + key
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(nested, full, out)
			continue
		}
		out[full] = val
	}
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return Clone(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
