package setting

import (
	"errors"
	"fmt"
)

// Configuration errors. These indicate a programming mistake in the host
// and are returned when a definition is added or updated.
var (
	// ErrMissingKind indicates a definition without a kind.
	ErrMissingKind = errors.New("setting kind not set")

	// ErrPartialAccessor indicates only one of Getter/Setter was supplied.
	ErrPartialAccessor = errors.New("accessor mode requires both getter and setter")

	// ErrUnknownKind indicates a kind name or value outside the closed set.
	ErrUnknownKind = errors.New("unknown setting kind")
)

// ConfigError ties a configuration error to the setting that caused it.
type ConfigError struct {
	// Name is the display name of the offending setting.
	Name string
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid setting: %v", e.Err)
	}
	return fmt.Sprintf("invalid setting %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
