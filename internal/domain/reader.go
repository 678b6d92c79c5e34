package domain

import "net/url"

// WebContentReader is the capability set of a web content read.
//
// Each handler accepts one format and returns true when it consumed the
// payload. A nil handler means the caller cannot accept that format, and the
// negotiator never offers it. Handlers may call back into the pasteboard.
type WebContentReader struct {
	ReadWebArchive func(data []byte) bool
	ReadFilePaths  func(paths []string) bool
	ReadHTML       func(markup string) bool
	ReadRTFD       func(data []byte) bool
	ReadRTF        func(data []byte) bool
	ReadImage      func(data []byte, mimeType string) bool
	ReadURL        func(u *url.URL, title string) bool
	ReadPlainText  func(text string) bool
}

// FileReader receives file names and in-memory file buffers from the medium
type FileReader struct {
	ReadFilename func(name string)
	ReadBuffer   func(filename, mimeType string, data []byte)
}
