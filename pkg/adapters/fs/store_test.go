package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/clipmemo/pkg/adapters/fs"
	"github.com/aretw0/clipmemo/pkg/core"
)

// setupStore helps create an initialized store for testing.
func setupStore(t *testing.T, opts ...func(*fs.Config)) (*fs.Store, string) {
	t.Helper()

	vaultPath := filepath.Join(t.TempDir(), "vault")

	cfg := fs.Config{
		Path:     vaultPath,
		AutoInit: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := fs.NewStore(cfg)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return store, vaultPath
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupStore(t)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected vault directory at %s", path)
		}
		if _, err := os.Stat(filepath.Join(path, fs.DefaultSystemDir)); os.IsNotExist(err) {
			t.Error("expected system directory to be created")
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		store := fs.NewStore(fs.Config{
			Path:      filepath.Join(t.TempDir(), "missing"),
			MustExist: true,
		})
		if err := store.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail when directory is missing and MustExist=true")
		}
	})
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Round Trip", func(t *testing.T) {
		store, _ := setupStore(t)

		payload := []byte(`[{"id":"1","title":"t","content":"c","category":"기본","createdAt":"2024-01-02T03:04:05Z"}]`)
		if err := store.Save(ctx, core.KeyItems, payload); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load(ctx, core.KeyItems)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(got) != string(payload) {
			t.Errorf("round trip mismatch: %s", got)
		}
	})

	t.Run("Typed Round Trip Preserves Values", func(t *testing.T) {
		store, _ := setupStore(t)

		memos := []core.Memo{
			{ID: "1", Title: "제목", Content: "내용", Category: core.CategoryDefault,
				CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		}
		if err := core.SaveJSON(ctx, store, core.KeyItems, memos); err != nil {
			t.Fatalf("SaveJSON failed: %v", err)
		}

		got := core.LoadJSON(ctx, store, core.KeyItems, []core.Memo{})
		if len(got) != 1 || got[0] != memos[0] {
			t.Errorf("typed round trip mismatch: %+v", got)
		}
	})

	t.Run("Missing Key", func(t *testing.T) {
		store, _ := setupStore(t)

		_, err := store.Load(ctx, core.KeyItems)
		if !errors.Is(err, core.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}

		// And the typed loader hands back the default.
		got := core.LoadJSON(ctx, store, core.KeyCategories, core.DefaultCategories())
		if len(got) != 2 {
			t.Errorf("expected default categories, got %v", got)
		}
	})

	t.Run("Corrupt Value Yields Default", func(t *testing.T) {
		store, path := setupStore(t)

		if err := os.WriteFile(filepath.Join(path, core.KeyItems+".json"), []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}

		got := core.LoadJSON(ctx, store, core.KeyItems, []core.Memo{})
		if len(got) != 0 {
			t.Errorf("expected the default on corrupt data, got %v", got)
		}
	})

	t.Run("Rejects Path Escapes", func(t *testing.T) {
		store, _ := setupStore(t)

		if err := store.Save(ctx, "../evil", []byte("x")); err == nil {
			t.Error("expected invalid key to be rejected")
		}
		if _, err := store.Load(ctx, "a/b"); err == nil {
			t.Error("expected invalid key to be rejected")
		}
	})

	t.Run("ReadOnly Rejects Writes", func(t *testing.T) {
		store, _ := setupStore(t, func(c *fs.Config) { c.ReadOnly = true })

		err := store.Save(ctx, core.KeyItems, []byte("[]"))
		var se *core.StorageError
		if !errors.As(err, &se) {
			t.Errorf("expected StorageError, got %v", err)
		}
	})
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	// No marker: clean no-op.
	if err := store.Sync(ctx); err != nil {
		t.Fatalf("Sync without marker failed: %v", err)
	}

	// With marker: cleared.
	if err := store.Save(ctx, core.KeyPendingSync, []byte(`true`)); err != nil {
		t.Fatal(err)
	}
	if err := store.Sync(ctx); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if _, err := store.Load(ctx, core.KeyPendingSync); !errors.Is(err, core.ErrKeyNotFound) {
		t.Errorf("expected marker to be cleared, got %v", err)
	}
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, path := setupStore(t)

	events, err := store.Watch(ctx, "clip-memo-*")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Give the watcher a moment to arm before writing.
	time.Sleep(100 * time.Millisecond)

	// Simulate the "other tab": a direct write bypassing this store handle.
	if err := os.WriteFile(filepath.Join(path, core.KeyItems+".json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-events:
		if event.Key != core.KeyItems {
			t.Errorf("expected event for %q, got %q", core.KeyItems, event.Key)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestWatchIgnoresPatternMisses(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store, path := setupStore(t)

	events, err := store.Watch(ctx, "clip-memo-*")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	// "language" does not match the pattern.
	if err := os.WriteFile(filepath.Join(path, core.KeyLanguage+".json"), []byte(`"en"`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-events:
		t.Errorf("unexpected event: %+v", event)
	case <-time.After(500 * time.Millisecond):
	}
}
