package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExternallyModified reports that the medium changed while a read was in flight
	ErrExternallyModified = errors.New("pasteboard was modified externally")

	// ErrNoChangeToken reports that the backend could not report its change token
	ErrNoChangeToken = errors.New("pasteboard change token unavailable")

	// ErrInternalType is returned when a caller tries to write a bookkeeping type directly
	ErrInternalType = errors.New("type is reserved for internal use")

	// ErrInvalidBundle reports a custom data bundle that violates its invariants
	ErrInvalidBundle = errors.New("invalid custom data bundle")

	// ErrInvalidURL reports a URL write with a relative or unparsable URL
	ErrInvalidURL = errors.New("url must be absolute")
)

// FormatError represents a malformed, truncated or unversioned custom data buffer
type FormatError struct {
	Offset int
	Reason string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed custom data at offset %d: %s", e.Offset, e.Reason)
}

// IsFormatError reports whether err wraps a *FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
