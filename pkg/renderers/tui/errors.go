package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when the session ends with server errors the
	// prompts could not resolve.
	ErrInvalid = errors.New("tui: form is invalid")
)

// ErrNotAvailable is returned when the orchestrator has no form to edit.
var ErrNotAvailable = errors.New("tui: form not available")
