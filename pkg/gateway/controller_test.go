package gateway_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/clipmemo/pkg/core"
	"github.com/aretw0/clipmemo/pkg/gateway"
)

// flakyFetcher serves canned responses and can be switched offline.
type flakyFetcher struct {
	responses map[string]*gateway.CachedResponse
	offline   bool
	calls     int
}

func (f *flakyFetcher) Fetch(r *http.Request) (*gateway.CachedResponse, error) {
	f.calls++
	if f.offline {
		return nil, errors.New("network unreachable")
	}
	if resp, ok := f.responses[r.URL.Path]; ok {
		return resp.Clone(), nil
	}
	return &gateway.CachedResponse{
		Status: http.StatusNotFound,
		Header: http.Header{},
		Body:   []byte("not found"),
	}, nil
}

// syncStore records saves and sync calls.
type syncStore struct {
	data   map[string][]byte
	synced int
}

func newSyncStore() *syncStore {
	return &syncStore{data: make(map[string][]byte)}
}

func (s *syncStore) Load(_ context.Context, key string) ([]byte, error) {
	data, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("load %s: %w", key, core.ErrKeyNotFound)
	}
	return data, nil
}

func (s *syncStore) Save(_ context.Context, key string, data []byte) error {
	s.data[key] = data
	return nil
}

func (s *syncStore) Initialize(_ context.Context) error { return nil }

func (s *syncStore) Sync(_ context.Context) error {
	s.synced++
	delete(s.data, core.KeyPendingSync)
	return nil
}

func textResponse(body string) *gateway.CachedResponse {
	return &gateway.CachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"text/plain"}},
		Body:   []byte(body),
	}
}

func setupController(t *testing.T) (*gateway.Controller, *flakyFetcher, *syncStore) {
	t.Helper()

	caches, err := gateway.OpenCaches(t.TempDir(), gateway.KnownCaches()...)
	if err != nil {
		t.Fatalf("OpenCaches failed: %v", err)
	}

	fetcher := &flakyFetcher{responses: map[string]*gateway.CachedResponse{
		"/static/app.css": textResponse("body { margin: 0 }"),
		"/offline.html":   textResponse("<html>offline shell</html>"),
		"/api/memos":      textResponse(`[{"id":"m1"}]`),
		"/":               textResponse("<html>index</html>"),
	}}

	store := newSyncStore()
	cfg := gateway.DefaultConfig()
	cfg.Precache = []string{"/offline.html"}

	ctrl := gateway.NewController(caches, fetcher, store, cfg, nil)
	if err := ctrl.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if err := ctrl.Activate(context.Background()); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	return ctrl, fetcher, store
}

func get(t *testing.T, ctrl *gateway.Controller, path string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ctrl.ServeHTTP(rec, req)
	return rec
}

func TestCacheFirstStatic(t *testing.T) {
	ctrl, fetcher, _ := setupController(t)

	t.Run("Miss Fills From Network", func(t *testing.T) {
		rec := get(t, ctrl, "/static/app.css", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "margin") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("Hit Skips Network", func(t *testing.T) {
		before := fetcher.calls
		rec := get(t, ctrl, "/static/app.css", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if fetcher.calls != before {
			t.Errorf("expected cached asset to skip the network")
		}
	})

	t.Run("Served While Offline", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/static/app.css", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected cached 200 offline, got %d", rec.Code)
		}
	})

	t.Run("Offline Image Gets Placeholder", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/icons/unknown.png", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected placeholder 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %s", ct)
		}
	})

	t.Run("Offline Non Image Is 404", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/static/missing.js", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestNetworkFirstAPI(t *testing.T) {
	ctrl, fetcher, store := setupController(t)

	t.Run("Online Responses Are Cached", func(t *testing.T) {
		rec := get(t, ctrl, "/api/memos", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Offline Serves Last Known Data", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/api/memos", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected cached 200 offline, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "m1") {
			t.Errorf("expected cached payload, got %s", rec.Body.String())
		}
	})

	t.Run("Uncached Offline Read Reports Offline", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/api/categories", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		if _, marked := store.data[core.KeyPendingSync]; marked {
			t.Errorf("GET must not mark pending sync")
		}
	})

	t.Run("Offline Write Marks Pending Sync", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		req := httptest.NewRequest(http.MethodPost, "/api/memos", strings.NewReader(`{"content":"x"}`))
		rec := httptest.NewRecorder()
		ctrl.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		if _, marked := store.data[core.KeyPendingSync]; !marked {
			t.Fatalf("expected pending sync marker")
		}
	})

	t.Run("Sync Replays And Clears Marker", func(t *testing.T) {
		if err := ctrl.Sync(context.Background(), gateway.SyncTag); err != nil {
			t.Fatalf("Sync failed: %v", err)
		}
		if store.synced != 1 {
			t.Errorf("expected one sync pass, got %d", store.synced)
		}
		if _, marked := store.data[core.KeyPendingSync]; marked {
			t.Errorf("marker should be cleared after sync")
		}
	})

	t.Run("Unknown Tag Is Ignored", func(t *testing.T) {
		if err := ctrl.Sync(context.Background(), "sync-other"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.synced != 1 {
			t.Errorf("unknown tag must not trigger sync")
		}
	})
}

func TestNavigationFallback(t *testing.T) {
	ctrl, fetcher, _ := setupController(t)

	t.Run("Online Navigation Passes Through", func(t *testing.T) {
		rec := get(t, ctrl, "/", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Offline Repeat Visit Uses Dynamic Cache", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected cached navigation, got %d", rec.Code)
		}
	})

	t.Run("Offline First Visit Gets Offline Page", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/settings", nil)
		if !strings.Contains(rec.Body.String(), "offline shell") {
			t.Errorf("expected precached offline page, got %s", rec.Body.String())
		}
	})

	t.Run("Query String Still Finds Precached Offline Page", func(t *testing.T) {
		fetcher.offline = true
		defer func() { fetcher.offline = false }()

		rec := get(t, ctrl, "/share?memo=42", nil)
		if !strings.Contains(rec.Body.String(), "offline shell") {
			t.Errorf("expected precached offline page, got %s", rec.Body.String())
		}
	})
}

func TestFallbackIconIgnoresQueryString(t *testing.T) {
	caches, err := gateway.OpenCaches(t.TempDir(), gateway.KnownCaches()...)
	if err != nil {
		t.Fatalf("OpenCaches failed: %v", err)
	}

	cfg := gateway.DefaultConfig()
	cfg.Precache = []string{"/icons/fallback.png"}

	icon := &gateway.CachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"image/png"}},
		Body:   []byte("precached icon bytes"),
	}
	fetcher := &flakyFetcher{responses: map[string]*gateway.CachedResponse{
		"/icons/fallback.png": icon,
	}}

	ctrl := gateway.NewController(caches, fetcher, newSyncStore(), cfg, nil)
	if err := ctrl.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	fetcher.offline = true

	rec := get(t, ctrl, "/avatars/user.png?size=64", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "precached icon bytes" {
		t.Errorf("expected the precached icon, got %q", got)
	}
}

func TestActivatePrunesStaleCaches(t *testing.T) {
	root := t.TempDir()
	caches, err := gateway.OpenCaches(root, gateway.KnownCaches()...)
	if err != nil {
		t.Fatalf("OpenCaches failed: %v", err)
	}

	// A leftover generation from an older deploy.
	stale, err := gateway.OpenCaches(root, "clipmemo-static-v0")
	if err != nil {
		t.Fatalf("failed to create stale cache: %v", err)
	}
	_ = stale

	ctrl := gateway.NewController(caches, &flakyFetcher{}, newSyncStore(), gateway.DefaultConfig(), nil)
	if err := ctrl.Activate(context.Background()); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	names, err := caches.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	for _, name := range names {
		if name == "clipmemo-static-v0" {
			t.Errorf("stale cache survived activation")
		}
	}
	if len(names) != len(gateway.KnownCaches()) {
		t.Errorf("expected only the live caches, got %v", names)
	}
}

func TestInstallToleratesPrecacheMisses(t *testing.T) {
	caches, err := gateway.OpenCaches(t.TempDir(), gateway.KnownCaches()...)
	if err != nil {
		t.Fatalf("OpenCaches failed: %v", err)
	}

	cfg := gateway.DefaultConfig()
	cfg.Precache = []string{"/offline.html", "/missing.css"}

	fetcher := &flakyFetcher{responses: map[string]*gateway.CachedResponse{
		"/offline.html": textResponse("shell"),
	}}

	ctrl := gateway.NewController(caches, fetcher, newSyncStore(), cfg, nil)
	if err := ctrl.Install(context.Background()); err != nil {
		t.Fatalf("Install should skip failed precache entries: %v", err)
	}
}
