// Package fs implements the vault's key-value store on the local filesystem.
//
// Each storage key maps to one JSON text file directly inside the vault
// directory; the hidden system directory holds gateway caches and other
// bookkeeping. Writes are atomic (temp file + rename), but there is no
// locking across processes: two writers race last-write-wins, which the
// watch worker makes observable without attempting to resolve.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/clipmemo/pkg/core"
)

// DefaultSystemDir is the hidden bookkeeping directory inside the vault.
const DefaultSystemDir = ".clipmemo"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	AutoInit     bool
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string // e.g. ".clipmemo"
	ErrorHandler func(error)
}

// Store implements core.Store on top of a flat directory of JSON files.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// SystemDir returns the absolute path of the vault's bookkeeping directory.
func (s *Store) SystemDir() string {
	return filepath.Join(s.Path, s.config.SystemDir)
}

// Initialize ensures the vault directory and its system directory exist.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat vault path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", s.Path)
		}
	} else {
		if err := os.MkdirAll(s.Path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	if s.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(s.SystemDir(), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}
	return nil
}

// Load retrieves the raw value for a key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("key %q: %w", key, core.ErrKeyNotFound)
	}
	if err != nil {
		return nil, core.NewStorageError(core.StorageUnknown, key, err)
	}
	return data, nil
}

// Save persists the raw value for a key atomically.
//
// Failures are classified so callers can distinguish an exhausted disk or
// quota from everything else. The caller's in-memory value is untouched
// either way; surfacing the error (with a retry affordance) is their job.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return core.NewStorageError(core.StorageUnknown, key, errors.New("store is read-only"))
	}

	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, data, 0644); err != nil {
		return core.NewStorageError(classifyWriteError(err), key, err)
	}
	return nil
}

// Delete removes a key. Missing keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return core.NewStorageError(core.StorageUnknown, key, err)
	}
	return nil
}

// Sync is the best-effort background reconciliation pass: it reads the
// pending-offline-writes marker and clears it. No remote endpoint exists,
// so this is an extension point, not a working sync protocol.
func (s *Store) Sync(ctx context.Context) error {
	if _, err := s.Load(ctx, core.KeyPendingSync); err != nil {
		if errors.Is(err, core.ErrKeyNotFound) {
			return nil // Nothing pending
		}
		return err
	}

	s.config.Logger.Info("clearing pending sync marker", "key", core.KeyPendingSync)
	return s.Delete(ctx, core.KeyPendingSync)
}

// keyPath maps a storage key to its file inside the vault. Keys must be
// plain names; anything resembling a path escape is rejected outright.
func (s *Store) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", core.NewStorageError(core.StorageUnknown, key, errors.New("invalid storage key"))
	}
	return filepath.Join(s.Path, key+".json"), nil
}

// classifyWriteError maps a write failure onto the storage taxonomy.
func classifyWriteError(err error) core.StorageKind {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return core.StorageQuotaExceeded
	}
	return core.StorageUnknown
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

var _ core.Store = (*Store)(nil)
var _ core.Syncable = (*Store)(nil)
