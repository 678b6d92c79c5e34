package domain

import "image"

// ClientItem is a caller-supplied (type, bytes) pair appended after the built-in encodings
type ClientItem struct {
	Type string
	Data []byte
}

// Entry is a single typed payload as stored on the medium
type Entry struct {
	Type string
	Data []byte
}

// WebContent is a selection of web content in every encoding the writer can produce.
// Empty fields are skipped; consumers prefer the richest encoding they support.
type WebContent struct {
	ContentOrigin        string
	CanSmartCopyOrDelete bool

	WebArchive       []byte
	RTFD             []byte
	RTF              []byte
	AttributedString []byte
	HTML             string
	PlainText        string

	ClientItems []ClientItem
}

// URL is a link together with its display title
type URL struct {
	URL             string
	Title           string
	UserVisibleForm string
}

// Image is a decoded image plus the alternative representations written alongside it
type Image struct {
	Image      image.Image
	WebArchive []byte
	URL        URL

	ResourceData     []byte
	ResourceMIMEType string
	ClientItems      []ClientItem

	SuggestedName string
	Width         int
	Height        int
}

// PlainText is the result of a plain text read
type PlainText struct {
	Text  string
	IsURL bool
}
