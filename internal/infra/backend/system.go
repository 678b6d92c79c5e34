package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	clipboard "github.com/inference-gateway/pasteboard/internal/clipboard"
	domain "github.com/inference-gateway/pasteboard/internal/domain"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
)

// Clipboard is the native clipboard a SystemBackend mirrors
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
	ReadImage() ([]byte, error)
	WriteImage(png []byte) error
}

// SystemBackend implements domain.Backend over the desktop clipboard.
//
// Plain text and PNG live natively; other types are kept in process next to
// them and dropped once another application changes the clipboard. The
// change token advances whenever the digest of the native content changes.
type SystemBackend struct {
	name      string
	clipboard Clipboard

	mutex   sync.Mutex
	entries []domain.Entry
	digest  uint64
	token   int64
	synced  bool
}

// NewSystemBackend creates a backend mirroring cb
func NewSystemBackend(name string, cb Clipboard) *SystemBackend {
	return &SystemBackend{name: name, clipboard: cb}
}

// Name returns the medium name
func (b *SystemBackend) Name() string {
	return b.name
}

// readNative returns the native entries and their digest
func (b *SystemBackend) readNative() ([]domain.Entry, uint64, error) {
	text, err := b.clipboard.ReadText()
	if err != nil {
		return nil, 0, err
	}
	img, err := b.clipboard.ReadImage()
	if err != nil {
		return nil, 0, err
	}

	h := xxhash.New()
	_, _ = h.WriteString(text)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(img)

	var entries []domain.Entry
	if text != "" {
		entries = append(entries, domain.Entry{Type: domain.TypePlainText, Data: []byte(text)})
	}
	if len(img) > 0 {
		entries = append(entries, domain.Entry{Type: domain.TypePNG, Data: img})
	}
	return entries, h.Sum64(), nil
}

// sync picks up changes made by other applications. Callers hold the mutex.
func (b *SystemBackend) sync() error {
	native, digest, err := b.readNative()
	if err != nil {
		return fmt.Errorf("failed to read system clipboard: %w", err)
	}
	if b.synced && digest == b.digest {
		return nil
	}

	if b.synced {
		logger.Debug("System clipboard changed externally", "pasteboard", b.name)
	}
	b.entries = native
	b.digest = digest
	b.synced = true
	b.token++
	return nil
}

// ChangeToken returns the mutation counter
func (b *SystemBackend) ChangeToken(ctx context.Context) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if err := b.sync(); err != nil {
		return 0, err
	}
	return b.token, nil
}

// Types lists the current types in write order
func (b *SystemBackend) Types(ctx context.Context) ([]string, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if err := b.sync(); err != nil {
		return nil, err
	}
	types := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		types = append(types, e.Type)
	}
	return types, nil
}

// ReadPayload returns a copy of the payload for typ
func (b *SystemBackend) ReadPayload(ctx context.Context, typ string) ([]byte, bool, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if err := b.sync(); err != nil {
		return nil, false, err
	}
	for _, e := range b.entries {
		if e.Type == typ {
			return append([]byte{}, e.Data...), true, nil
		}
	}
	return nil, false, nil
}

// WritePayload stores one entry, keeping the position of an existing type
func (b *SystemBackend) WritePayload(ctx context.Context, typ string, data []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if err := b.sync(); err != nil {
		return err
	}

	entries := append([]domain.Entry{}, b.entries...)
	stored := append([]byte{}, data...)
	replaced := false
	for i := range entries {
		if entries[i].Type == typ {
			entries[i].Data = stored
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, domain.Entry{Type: typ, Data: stored})
	}
	return b.commit(entries)
}

// Replace swaps the whole clipboard content
func (b *SystemBackend) Replace(ctx context.Context, entries []domain.Entry) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.commit(dedupeEntries(entries))
}

// Clear empties the clipboard
func (b *SystemBackend) Clear(ctx context.Context) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.commit(nil)
}

// ClearType removes the entry for typ
func (b *SystemBackend) ClearType(ctx context.Context, typ string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if err := b.sync(); err != nil {
		return err
	}

	kept := make([]domain.Entry, 0, len(b.entries))
	for _, e := range b.entries {
		if e.Type != typ {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(b.entries) {
		return nil
	}
	return b.commit(kept)
}

// Close is a no-op; the clipboard outlives the backend
func (b *SystemBackend) Close() error {
	return nil
}

// commit pushes the native entries to the clipboard and records entries as
// the new content. Callers hold the mutex.
func (b *SystemBackend) commit(entries []domain.Entry) error {
	var text string
	var img []byte
	for _, e := range entries {
		switch e.Type {
		case domain.TypePlainText:
			text = string(e.Data)
		case domain.TypePNG:
			img = e.Data
		}
	}

	if err := b.clipboard.WriteText(text); err != nil {
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}
	if len(img) > 0 {
		err := b.clipboard.WriteImage(img)
		if errors.Is(err, clipboard.ErrImageUnsupported) {
			logger.Debug("Keeping image in process only", "pasteboard", b.name)
		} else if err != nil {
			return fmt.Errorf("failed to write system clipboard image: %w", err)
		}
	}

	_, digest, err := b.readNative()
	if err != nil {
		return fmt.Errorf("failed to read back system clipboard: %w", err)
	}

	b.entries = entries
	b.digest = digest
	b.synced = true
	b.token++
	return nil
}

// SystemStore serves the general medium from the desktop clipboard and every
// other medium, such as drag sessions, from memory
type SystemStore struct {
	general *SystemBackend
	others  *MemoryStore
}

// NewSystemStore creates a store over cb
func NewSystemStore(generalName string, cb Clipboard) *SystemStore {
	return &SystemStore{
		general: NewSystemBackend(generalName, cb),
		others:  NewMemoryStore(),
	}
}

// Backend returns the backend for the named medium
func (s *SystemStore) Backend(name string) (domain.Backend, error) {
	if name == s.general.Name() {
		return s.general, nil
	}
	return s.others.Open(name), nil
}

// Close is a no-op
func (s *SystemStore) Close() error {
	return nil
}
