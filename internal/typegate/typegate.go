// Package typegate decides which type identifiers may reach script-visible APIs.
package typegate

import (
	"strings"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
)

var domSafeTypes = map[string]bool{
	domain.TypePlainText: true,
	domain.TypeHTML:      true,
	domain.TypeURIList:   true,
}

// Normalize lower-cases and trims a type identifier
func Normalize(typ string) string {
	return strings.ToLower(strings.TrimSpace(typ))
}

// Canonical returns the spelling a type is stored under: DOM-safe types in
// normalized form, anything else as given
func Canonical(typ string) string {
	if IsSafeForDOM(typ) {
		return Normalize(typ)
	}
	return typ
}

// Resolve returns the spelling under which typ appears in types. Matching
// ignores case and surrounding space.
func Resolve(types []string, typ string) (string, bool) {
	want := Normalize(typ)
	for _, t := range types {
		if Normalize(t) == want {
			return t, true
		}
	}
	return "", false
}

// Classify returns the exposure class of typ. Only the identifier is
// inspected, never a payload.
func Classify(typ string) domain.TypeClassification {
	t := Normalize(typ)
	switch {
	case t == "":
		return domain.NeverExposable
	case strings.HasPrefix(t, domain.InternalTypePrefix):
		return domain.NeverExposable
	case domSafeTypes[t]:
		return domain.DomSafe
	default:
		return domain.LegacyUnsafe
	}
}

// IsSafeForDOM reports whether script may read and write typ
func IsSafeForDOM(typ string) bool {
	return Classify(typ) == domain.DomSafe
}

// IsExposable reports whether typ may appear in any caller-facing listing
func IsExposable(typ string) bool {
	return Classify(typ) != domain.NeverExposable
}

// MayExposeURL reports whether URL entries may be exposed to script. A medium
// carrying file paths never reveals its URL, so script cannot recover a
// location that correlates with or stands in for the files.
func MayExposeURL(hasFileEntries bool) bool {
	return !hasFileEntries
}

// HasFileEntries reports whether types contains a file path entry
func HasFileEntries(types []string) bool {
	for _, t := range types {
		if Normalize(t) == domain.TypeFilePaths {
			return true
		}
	}
	return false
}

// FilterSafeForBindings keeps DOM-safe types in order, dropping the URL type
// when file entries are present
func FilterSafeForBindings(types []string, hasFileEntries bool) []string {
	exposeURL := MayExposeURL(hasFileEntries)
	result := make([]string, 0, len(types))
	for _, t := range types {
		if !IsSafeForDOM(t) {
			continue
		}
		if !exposeURL && Normalize(t) == domain.TypeURIList {
			continue
		}
		result = append(result, Normalize(t))
	}
	return result
}

// FilterLegacy keeps every type that is not internal bookkeeping
func FilterLegacy(types []string) []string {
	result := make([]string, 0, len(types))
	for _, t := range types {
		if IsExposable(t) {
			result = append(result, t)
		}
	}
	return result
}
