package asset

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPreviewable is returned for directories and unrecognized files.
	ErrNotPreviewable = errors.New("entry is not previewable")
	// ErrInvalidFormat marks a snapshot missing required fields.
	ErrInvalidFormat = errors.New("invalid snapshot format")
)

// FormatError reports a snapshot that could not be read or validated.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot preview %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFormat, fmt.Sprintf(format, args...))
}
