package domain

// Canonical type identifiers stored on the medium. Backends persist entries
// under these names; no per-platform mapping happens in this module.
const (
	TypePlainText = "text/plain"
	TypeHTML      = "text/html"
	TypeURIList   = "text/uri-list"

	TypeWebArchive        = "application/x-webarchive"
	TypeRTFD              = "text/rtfd"
	TypeRTF               = "text/rtf"
	TypeAttributedString  = "application/x-attributed-string"
	TypeFilePaths         = "application/x-file-paths"
	TypeURLTitle          = "application/x-url-title"
	TypeTrustworthyWebURL = "application/x-trustworthy-web-urls"

	TypePNG  = "image/png"
	TypeTIFF = "image/tiff"
	TypeJPEG = "image/jpeg"
	TypeGIF  = "image/gif"

	// InternalTypePrefix marks bookkeeping entries that never leave the module
	InternalTypePrefix = "application/x-pasteboard-"

	TypeCustomData        = InternalTypePrefix + "custom-data"
	TypeSmartPaste        = InternalTypePrefix + "smart-paste"
	TypeSuggestedFilename = InternalTypePrefix + "suggested-filename"
)

// ImageTypes lists the image identifiers in preference order
var ImageTypes = []string{TypePNG, TypeTIFF, TypeJPEG, TypeGIF}

// IsImageType reports whether t names one of the known image encodings
func IsImageType(t string) bool {
	for _, it := range ImageTypes {
		if it == t {
			return true
		}
	}
	return false
}

// TypeClassification is the exposure class of a type identifier
type TypeClassification int

const (
	NeverExposable TypeClassification = iota // Internal bookkeeping, filtered everywhere
	LegacyUnsafe                             // Visible to non-script callers only
	DomSafe                                  // Readable and enumerable by script
)

func (c TypeClassification) String() string {
	switch c {
	case DomSafe:
		return "dom-safe"
	case LegacyUnsafe:
		return "legacy-unsafe"
	default:
		return "never-exposable"
	}
}

// ReadingPolicy restricts which formats a web content read may consume
type ReadingPolicy int

const (
	AnyType ReadingPolicy = iota
	OnlyRichTextTypes
)

func (p ReadingPolicy) String() string {
	if p == OnlyRichTextTypes {
		return "only-rich-text"
	}
	return "any"
}

// SmartReplaceOption controls whether a plain text write carries the smart paste marker
type SmartReplaceOption int

const (
	CanSmartReplace SmartReplaceOption = iota
	CannotSmartReplace
)

// FileContentState summarizes whether the medium carries files or images
type FileContentState int

const (
	NoFileOrImageData FileContentState = iota
	InMemoryImage
	MayContainFilePaths
)

func (s FileContentState) String() string {
	switch s {
	case InMemoryImage:
		return "in-memory-image"
	case MayContainFilePaths:
		return "may-contain-file-paths"
	default:
		return "no-file-or-image-data"
	}
}
