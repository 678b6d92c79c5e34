package backend

import (
	"context"
	"sync"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
)

// MemoryBackend implements domain.Backend in process memory.
// Several pasteboards opened with the same MemoryStore share one medium.
type MemoryBackend struct {
	name  string
	store *MemoryStore
}

// MemoryStore holds the in-memory media keyed by pasteboard name
type MemoryStore struct {
	media map[string]*memoryMedium
	mutex sync.RWMutex
}

type memoryMedium struct {
	entries []domain.Entry
	token   int64
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{media: make(map[string]*memoryMedium)}
}

// NewMemoryBackend creates a backend for name over a private store
func NewMemoryBackend(name string) *MemoryBackend {
	return NewMemoryStore().Open(name)
}

// Open returns the backend for the named medium
func (s *MemoryStore) Open(name string) *MemoryBackend {
	return &MemoryBackend{name: name, store: s}
}

// Backend returns the backend for the named medium
func (s *MemoryStore) Backend(name string) (domain.Backend, error) {
	return s.Open(name), nil
}

// Close is a no-op for memory stores
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) medium(name string) *memoryMedium {
	m, ok := s.media[name]
	if !ok {
		m = &memoryMedium{}
		s.media[name] = m
	}
	return m
}

// Name returns the medium name
func (b *MemoryBackend) Name() string {
	return b.name
}

// ChangeToken returns the mutation counter
func (b *MemoryBackend) ChangeToken(ctx context.Context) (int64, error) {
	b.store.mutex.RLock()
	defer b.store.mutex.RUnlock()

	if m, ok := b.store.media[b.name]; ok {
		return m.token, nil
	}
	return 0, nil
}

// Types lists stored types in write order
func (b *MemoryBackend) Types(ctx context.Context) ([]string, error) {
	b.store.mutex.RLock()
	defer b.store.mutex.RUnlock()

	m, ok := b.store.media[b.name]
	if !ok {
		return []string{}, nil
	}

	types := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		types = append(types, e.Type)
	}
	return types, nil
}

// ReadPayload returns a copy of the payload for typ
func (b *MemoryBackend) ReadPayload(ctx context.Context, typ string) ([]byte, bool, error) {
	b.store.mutex.RLock()
	defer b.store.mutex.RUnlock()

	m, ok := b.store.media[b.name]
	if !ok {
		return nil, false, nil
	}
	for _, e := range m.entries {
		if e.Type == typ {
			return append([]byte{}, e.Data...), true, nil
		}
	}
	return nil, false, nil
}

// WritePayload stores one entry
func (b *MemoryBackend) WritePayload(ctx context.Context, typ string, data []byte) error {
	b.store.mutex.Lock()
	defer b.store.mutex.Unlock()

	m := b.store.medium(b.name)
	stored := append([]byte{}, data...)
	for i := range m.entries {
		if m.entries[i].Type == typ {
			m.entries[i].Data = stored
			m.token++
			return nil
		}
	}
	m.entries = append(m.entries, domain.Entry{Type: typ, Data: stored})
	m.token++
	return nil
}

// Replace swaps the whole medium content
func (b *MemoryBackend) Replace(ctx context.Context, entries []domain.Entry) error {
	b.store.mutex.Lock()
	defer b.store.mutex.Unlock()

	m := b.store.medium(b.name)
	m.entries = dedupeEntries(entries)
	m.token++
	return nil
}

// Clear removes every entry
func (b *MemoryBackend) Clear(ctx context.Context) error {
	b.store.mutex.Lock()
	defer b.store.mutex.Unlock()

	m := b.store.medium(b.name)
	m.entries = nil
	m.token++
	return nil
}

// ClearType removes the entry for typ
func (b *MemoryBackend) ClearType(ctx context.Context, typ string) error {
	b.store.mutex.Lock()
	defer b.store.mutex.Unlock()

	m := b.store.medium(b.name)
	kept := m.entries[:0]
	removed := false
	for _, e := range m.entries {
		if e.Type == typ {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	if removed {
		m.token++
	}
	return nil
}

// Close is a no-op for memory backends
func (b *MemoryBackend) Close() error {
	return nil
}

// dedupeEntries copies entries, keeping the first occurrence of each type
func dedupeEntries(entries []domain.Entry) []domain.Entry {
	seen := make(map[string]bool, len(entries))
	result := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Type] {
			continue
		}
		seen[e.Type] = true
		result = append(result, domain.Entry{Type: e.Type, Data: append([]byte{}, e.Data...)})
	}
	return result
}
