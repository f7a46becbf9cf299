package core

import (
	"context"
	"encoding/json"
)

// Storage keys. Each key maps to one JSON-encoded value in the vault.
const (
	KeyItems        = "clip-memo-items"
	KeyCategories   = "clip-memo-categories"
	KeyBannerClosed = "clip-memo-banner-closed"
	KeyLanguage     = "language"

	// KeyPendingSync is the marker left behind when a write happened while
	// the gateway was offline. The sync hook reads and clears it.
	KeyPendingSync = "clip-memo-pending-sync"
)

// Store defines the contract for the key-value persistence layer.
// Adhering to this interface keeps the core independent of the underlying
// storage mechanism (filesystem today, anything addressable tomorrow).
//
// There is no transaction spanning multiple keys: persisting the collection
// is two independent Save calls, and a crash between them can leave the keys
// inconsistent. That risk is accepted for this tool's profile.
type Store interface {
	// Load retrieves the raw value for a key, or ErrKeyNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save persists the raw value for a key. Failures are reported as
	// *StorageError so callers can distinguish quota exhaustion from the rest.
	Save(ctx context.Context, key string, data []byte) error

	// Initialize ensures the underlying storage is ready (e.g. create directories).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report external writes to the
// vault, e.g. a second process sharing the same directory. Ordering across
// writers stays last-write-wins; the watch only makes the race observable.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Syncable is implemented by stores that support a best-effort background
// reconciliation pass. The default implementation only clears the
// pending-writes marker; it is an extension point, not a sync protocol.
type Syncable interface {
	Sync(ctx context.Context) error
}

// LoadJSON decodes the value stored under key into T. A missing or corrupt
// entry yields the caller-supplied default rather than an error: the vault
// self-heals on the next successful save.
func LoadJSON[T any](ctx context.Context, s Store, key string, def T) T {
	data, err := s.Load(ctx, key)
	if err != nil {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return def
	}
	return v
}

// SaveJSON encodes v and persists it under key. A serialization failure is
// classified as StorageUnknown; write failures keep the classification
// assigned by the store.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return NewStorageError(StorageUnknown, key, err)
	}
	return s.Save(ctx, key, data)
}
