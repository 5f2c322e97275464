package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoScript indicates Options without a script.
	ErrNoScript = errors.New("no panel script given")

	// ErrNoScreen indicates the panel was shown before a screen was set.
	ErrNoScreen = errors.New("no screen available")

	// ErrNoProfile indicates a profile operation without a profile file.
	ErrNoProfile = errors.New("no profile configured")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
