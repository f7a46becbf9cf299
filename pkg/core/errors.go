package core

import (
	"errors"
	"fmt"
)

// Validation errors. All are reported synchronously and leave the collection
// untouched.
var (
	ErrContentTooLong    = errors.New("memo content exceeds the maximum length")
	ErrMemoNotFound      = errors.New("memo not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrReservedCategory  = errors.New("category is reserved")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidLanguage   = errors.New("unsupported language code")
)

// ErrKeyNotFound is returned by a Store when a key has never been written.
// Typed loaders translate it into the caller-supplied default.
var ErrKeyNotFound = errors.New("storage key not found")

// StorageKind classifies a storage failure.
type StorageKind string

const (
	// StorageQuotaExceeded means the write was rejected because it would
	// exceed the vault's storage budget (or the filesystem's own quota).
	StorageQuotaExceeded StorageKind = "QUOTA_EXCEEDED"

	// StorageCorrupt means a persisted value could not be decoded.
	StorageCorrupt StorageKind = "CORRUPT"

	// StorageUnknown covers every other persistence failure.
	StorageUnknown StorageKind = "UNKNOWN"
)

// StorageError is the typed failure reported at the Store boundary.
//
// When a Manager operation returns a StorageError, the in-memory collection
// already reflects the attempted change; only the persisted copy is stale.
// Callers must surface the error (so the user can retry) rather than roll
// the memory state back.
type StorageError struct {
	Kind StorageKind
	Key  string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage %s on %q: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s on %q", e.Kind, e.Key)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError builds a classified storage failure for the given key.
func NewStorageError(kind StorageKind, key string, err error) *StorageError {
	return &StorageError{Kind: kind, Key: key, Err: err}
}

// IsQuotaExceeded reports whether err is a quota-class storage failure.
func IsQuotaExceeded(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == StorageQuotaExceeded
}
