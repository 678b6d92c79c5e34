package domain

import "context"

// Backend is a single native medium (a named clipboard or drag pasteboard).
//
// The change token is strictly increasing across every mutation, whether made
// through this process or externally. Implementations must not cache it.
type Backend interface {
	// Name returns the medium name
	Name() string

	// ChangeToken returns the current mutation counter
	ChangeToken(ctx context.Context) (int64, error)

	// Types lists the stored type identifiers in backend order
	Types(ctx context.Context) ([]string, error)

	// ReadPayload returns the payload for typ, or ok=false when absent
	ReadPayload(ctx context.Context, typ string) (data []byte, ok bool, err error)

	// WritePayload stores a single entry, keeping the position of an existing type
	WritePayload(ctx context.Context, typ string, data []byte) error

	// Replace clears the medium and stores entries in order as one mutation
	Replace(ctx context.Context, entries []Entry) error

	// Clear removes every entry
	Clear(ctx context.Context) error

	// ClearType removes the entry for typ
	ClearType(ctx context.Context, typ string) error

	// Close releases backend resources
	Close() error
}
