// Package pasteboard exposes a named medium to editors and script bindings:
// typed reads and writes, the DOM-safe type view, origin-scoped custom data
// and web content negotiation.
package pasteboard

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/google/uuid"

	customdata "github.com/inference-gateway/pasteboard/internal/customdata"
	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	negotiator "github.com/inference-gateway/pasteboard/internal/negotiator"
	typegate "github.com/inference-gateway/pasteboard/internal/typegate"
)

const (
	// GeneralName is the medium used for copy and paste
	GeneralName = "general"

	dragNamePrefix = "drag-"
)

// Opener opens the backend for a named medium
type Opener func(name string) (domain.Backend, error)

// Pasteboard is the facade over one medium
type Pasteboard struct {
	backend    domain.Backend
	negotiator *negotiator.Negotiator

	cacheMutex sync.Mutex
	cache      *customDataSnapshot
}

// customDataSnapshot is a decoded bundle stamped with the token it was read
// at. Snapshots are replaced wholesale, never modified.
type customDataSnapshot struct {
	token int64
	data  *domain.CustomData
}

// New creates a pasteboard over backend
func New(backend domain.Backend) *Pasteboard {
	return &Pasteboard{
		backend:    backend,
		negotiator: negotiator.New(backend),
	}
}

// CreateForCopyAndPaste opens the general medium
func CreateForCopyAndPaste(open Opener) (*Pasteboard, error) {
	backend, err := open(GeneralName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s pasteboard: %w", GeneralName, err)
	}
	return New(backend), nil
}

// CreateForDragAndDrop opens a fresh medium for a drag session
func CreateForDragAndDrop(open Opener) (*Pasteboard, error) {
	name := NewDragName()
	backend, err := open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open drag pasteboard %s: %w", name, err)
	}
	return New(backend), nil
}

// NewDragName returns a unique medium name for a drag session
func NewDragName() string {
	return dragNamePrefix + uuid.NewString()
}

// Name returns the medium name
func (p *Pasteboard) Name() string {
	return p.backend.Name()
}

// Backend returns the underlying backend
func (p *Pasteboard) Backend() domain.Backend {
	return p.backend
}

// ChangeToken returns the backend's current change token
func (p *Pasteboard) ChangeToken(ctx context.Context) (int64, error) {
	token, err := p.backend.ChangeToken(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrNoChangeToken, err)
	}
	return token, nil
}

// HasData reports whether the medium holds at least one entry
func (p *Pasteboard) HasData(ctx context.Context) bool {
	return len(p.types(ctx)) > 0
}

// types lists the backend types, treating a failure as an empty medium
func (p *Pasteboard) types(ctx context.Context) []string {
	types, err := p.backend.Types(ctx)
	if err != nil {
		logger.Warn("Failed to list pasteboard types", "pasteboard", p.Name(), "error", err)
		return nil
	}
	return types
}

func contains(types []string, typ string) bool {
	_, ok := typegate.Resolve(types, typ)
	return ok
}

// storedType returns the spelling typ is stored under, or its canonical
// spelling when the medium does not carry it yet
func (p *Pasteboard) storedType(ctx context.Context, typ string) string {
	if stored, ok := typegate.Resolve(p.types(ctx), typ); ok {
		return stored
	}
	return typegate.Canonical(typ)
}

// ReadCustomData returns the custom data bundle on the medium, or nil when
// there is none. The bundle is cached until the change token advances.
func (p *Pasteboard) ReadCustomData(ctx context.Context) (*domain.CustomData, error) {
	token, err := p.ChangeToken(ctx)
	if err != nil {
		return nil, err
	}

	p.cacheMutex.Lock()
	cached := p.cache
	p.cacheMutex.Unlock()
	if cached != nil && cached.token == token {
		return cached.data, nil
	}

	payload, ok, readErr := p.backend.ReadPayload(ctx, domain.TypeCustomData)
	if readErr != nil {
		logger.Warn("Failed to read custom data", "pasteboard", p.Name(), "error", readErr)
		ok = false
	}

	after, err := p.ChangeToken(ctx)
	if err != nil {
		return nil, err
	}
	if after != token {
		return nil, domain.ErrExternallyModified
	}

	var data *domain.CustomData
	if ok {
		data, err = customdata.Decode(payload)
		if err != nil {
			logger.Warn("Rejected malformed custom data", "pasteboard", p.Name(), "error", err)
			return nil, err
		}
	}

	if readErr != nil {
		return nil, nil
	}

	p.cacheMutex.Lock()
	if p.cache == nil || p.cache.token <= token {
		p.cache = &customDataSnapshot{token: token, data: data}
	}
	p.cacheMutex.Unlock()

	return data, nil
}

// ReadOrigin returns the origin recorded in the custom data bundle
func (p *Pasteboard) ReadOrigin(ctx context.Context) (string, error) {
	data, err := p.ReadCustomData(ctx)
	if err != nil || data == nil {
		return "", err
	}
	return data.Origin, nil
}

// TypesSafeForBindings lists the types script running at origin may see:
// the bundle's custom types visible to that origin, then the DOM-safe native
// types. The URL type is withheld while file entries are present, natively or
// in the bundle.
func (p *Pasteboard) TypesSafeForBindings(ctx context.Context, origin string) ([]string, error) {
	native := p.types(ctx)
	bundle, err := p.bundleFor(ctx, native)
	if err != nil {
		return nil, err
	}
	hasFiles := hasFileEntries(native, bundle)

	result := make([]string, 0, len(native))
	seen := make(map[string]bool)
	add := func(typ string) {
		if seen[typ] {
			return
		}
		if !typegate.IsExposable(typ) {
			return
		}
		if !typegate.MayExposeURL(hasFiles) && typegate.Normalize(typ) == domain.TypeURIList {
			return
		}
		seen[typ] = true
		result = append(result, typ)
	}

	if bundle != nil {
		sameOrigin := originsMatch(origin, bundle.Origin)
		for _, typ := range bundle.OrderedTypes {
			_, inPlatform := bundle.PlatformData[typ]
			_, inSameOrigin := bundle.SameOriginCustomData[typ]
			if inPlatform || (sameOrigin && inSameOrigin) {
				add(typ)
			}
		}
	}

	for _, typ := range typegate.FilterSafeForBindings(native, hasFiles) {
		add(typ)
	}

	return result, nil
}

// bundleFor reads the custom data bundle when native lists one
func (p *Pasteboard) bundleFor(ctx context.Context, native []string) (*domain.CustomData, error) {
	if !contains(native, domain.TypeCustomData) {
		return nil, nil
	}
	return p.ReadCustomData(ctx)
}

// hasFileEntries checks the native types and the bundle's types together
func hasFileEntries(native []string, bundle *domain.CustomData) bool {
	if typegate.HasFileEntries(native) {
		return true
	}
	return bundle != nil && typegate.HasFileEntries(bundle.OrderedTypes)
}

// TypesForLegacyUnsafeBindings lists every type except internal bookkeeping
func (p *Pasteboard) TypesForLegacyUnsafeBindings(ctx context.Context) []string {
	return typegate.FilterLegacy(p.types(ctx))
}

// ReadString returns the native value stored for typ, falling back to the
// custom data platform value. Internal types read as empty, and the URL
// reads as empty while file entries are present.
func (p *Pasteboard) ReadString(ctx context.Context, typ string) (string, error) {
	if !typegate.IsExposable(typ) {
		return "", nil
	}

	native := p.types(ctx)
	bundle, err := p.bundleFor(ctx, native)
	if err != nil {
		return "", err
	}
	if typegate.Normalize(typ) == domain.TypeURIList && !typegate.MayExposeURL(hasFileEntries(native, bundle)) {
		return "", nil
	}

	if stored, ok := typegate.Resolve(native, typ); ok {
		data, ok, err := p.backend.ReadPayload(ctx, stored)
		if err != nil {
			logger.Warn("Failed to read pasteboard payload", "pasteboard", p.Name(), "type", stored, "error", err)
		} else if ok {
			return string(data), nil
		}
	}

	if bundle == nil {
		return "", nil
	}
	return bundle.PlatformData[typ], nil
}

// ReadStringInCustomData returns the same-origin value for typ only when
// origin matches the bundle's origin. A mismatch reads as empty, exactly like
// an absent value.
func (p *Pasteboard) ReadStringInCustomData(ctx context.Context, origin, typ string) (string, error) {
	data, err := p.ReadCustomData(ctx)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", nil
	}

	value := data.SameOriginCustomData[typ]
	if !originsMatch(origin, data.Origin) {
		return "", nil
	}
	return value, nil
}

func originsMatch(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// CanSmartReplace reports whether the content was copied with smart paste enabled
func (p *Pasteboard) CanSmartReplace(ctx context.Context) bool {
	return contains(p.types(ctx), domain.TypeSmartPaste)
}

// FileContentState reports whether the medium may carry files or images
func (p *Pasteboard) FileContentState(ctx context.Context) domain.FileContentState {
	types := p.types(ctx)
	if typegate.HasFileEntries(types) {
		return domain.MayContainFilePaths
	}
	for _, t := range types {
		if domain.IsImageType(typegate.Normalize(t)) {
			return domain.InMemoryImage
		}
	}
	return domain.NoFileOrImageData
}
