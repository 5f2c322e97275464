// Package profile persists a settings store to TOML or YAML files.
//
// The store format is the plain nested map the panel reads and writes.
// Values that implement encoding.TextMarshaler, such as colors, are saved
// as their text form.
package profile

import (
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dshills/settingskit/internal/logging"
	"github.com/dshills/settingskit/internal/pathstore"
)

// ErrUnknownFormat indicates a profile path with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown profile format")

// FileSystem is the file access a Profile needs. Tests use an in-memory
// implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

// OSFS implements FileSystem on the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// WriteFile writes data to path.
func (OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// MkdirAll creates path and its parents.
func (OSFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

// Profile is one settings file.
type Profile struct {
	fs     FileSystem
	path   string
	format Format
	log    *log.Logger
}

// Option configures a Profile.
type Option func(*Profile)

// WithFileSystem sets the file system. The default is OSFS.
func WithFileSystem(fsys FileSystem) Option {
	return func(p *Profile) { p.fs = fsys }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Profile) { p.log = l }
}

// Open returns the profile at path. The file does not have to exist yet;
// its extension picks the format.
func Open(path string, opts ...Option) (*Profile, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	p := &Profile{fs: OSFS{}, path: path, format: format}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logging.Component(p.log, "profile")
	return p, nil
}

// Path returns the file path.
func (p *Profile) Path() string {
	return p.path
}

// Format returns the file format.
func (p *Profile) Format() Format {
	return p.format
}

// Load reads the file. A missing file is an empty profile.
func (p *Profile) Load() (map[string]any, error) {
	data, err := p.fs.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.log.Debug("profile not found, starting empty", "path", p.path)
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("reading profile %s: %w", p.path, err)
	}
	tree, err := Decode(p.format, data)
	if err != nil {
		return nil, &ParseError{Path: p.path, Err: err}
	}
	p.log.Debug("profile loaded", "path", p.path, "keys", len(pathstore.Flatten(tree)))
	return tree, nil
}

// Save writes data to the file, creating its directory if needed.
func (p *Profile) Save(data map[string]any) error {
	out, err := Encode(p.format, data)
	if err != nil {
		return fmt.Errorf("encoding profile %s: %w", p.path, err)
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := p.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	if err := p.fs.WriteFile(p.path, out, 0o644); err != nil {
		return fmt.Errorf("writing profile %s: %w", p.path, err)
	}
	p.log.Debug("profile saved", "path", p.path)
	return nil
}

// LoadInto reads the file and replaces store's contents with it. store
// keeps its identity so a panel bound to it sees the new values.
func (p *Profile) LoadInto(store map[string]any) error {
	tree, err := p.Load()
	if err != nil {
		return err
	}
	Apply(store, tree)
	return nil
}

// Apply replaces the contents of store with data.
func Apply(store, data map[string]any) {
	pathstore.Replace(store, data)
}

// ParseError reports a profile that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// plain converts a store tree into values every encoder accepts.
func plain(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			converted, err := plain(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			converted, err := plain(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case encoding.TextMarshaler:
		text, err := val.MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	default:
		return v, nil
	}
}

// normalize turns decoder output into store form. YAML may produce
// map[any]any for non-string keys.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
