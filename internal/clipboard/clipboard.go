// Package clipboard reaches the desktop clipboard. Darwin builds carry text
// and PNG images; other builds carry text through the platform utilities.
package clipboard

import "errors"

var (
	// ErrUnavailable is returned when no clipboard utility can be reached
	ErrUnavailable = errors.New("system clipboard unavailable")
	// ErrImageUnsupported is returned when the build cannot store images
	ErrImageUnsupported = errors.New("system clipboard does not support images in this build")
)

// Native is the process-wide system clipboard
type Native struct{}
