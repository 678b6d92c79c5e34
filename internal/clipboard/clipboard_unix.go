//go:build darwin && !test

package clipboard

import (
	"sync"

	xclipboard "golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init initializes the clipboard
func Init() error {
	initOnce.Do(func() {
		initErr = xclipboard.Init()
	})
	return initErr
}

// ReadText returns the text on the system clipboard
func (Native) ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	return string(xclipboard.Read(xclipboard.FmtText)), nil
}

// WriteText puts text on the system clipboard
func (Native) WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}

// ReadImage returns the PNG image on the system clipboard
func (Native) ReadImage() ([]byte, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return xclipboard.Read(xclipboard.FmtImage), nil
}

// WriteImage puts a PNG image on the system clipboard
func (Native) WriteImage(png []byte) error {
	if err := Init(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtImage, png)
	return nil
}
