//go:build !darwin || test

package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Init checks that a clipboard utility is available
func Init() error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return nil
}

// ReadText returns the text on the system clipboard
func (Native) ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// WriteText puts text on the system clipboard
func (Native) WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// ReadImage is not supported by the text-only clipboard
func (Native) ReadImage() ([]byte, error) {
	return nil, nil
}

// WriteImage is not supported by the text-only clipboard
func (Native) WriteImage(png []byte) error {
	return ErrImageUnsupported
}
