package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/clipmemo/pkg/core"
)

// SyncTag identifies the deferred-sync request the controller replays when
// connectivity returns.
const SyncTag = "sync-memos"

// Fetcher produces the upstream response for a request. In local mode it is
// backed by the in-process shell and API handlers; in proxy mode it goes
// over the network. A nil response with a non-nil error means the upstream
// is unreachable.
type Fetcher interface {
	Fetch(r *http.Request) (*CachedResponse, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(r *http.Request) (*CachedResponse, error)

func (f FetcherFunc) Fetch(r *http.Request) (*CachedResponse, error) {
	return f(r)
}

// Controller routes requests through the offline cache layer: cache-first
// for static assets, network-first for API data and navigations, synthetic
// fallbacks when both sides miss. It mirrors a service worker's lifecycle
// with explicit Install and Activate phases.
type Controller struct {
	caches  *DiskCache
	fetcher Fetcher
	store   core.Store
	logger  *slog.Logger
	config  Config

	mu        sync.Mutex
	installed bool
	activated bool
}

// NewController wires the cache layer over an upstream fetcher. The store
// carries the pending-sync marker between failed writes and later replays.
func NewController(caches *DiskCache, fetcher Fetcher, store core.Store, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		caches:  caches,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		config:  cfg,
	}
}

// Install precaches the configured shell assets. A failed precache fetch is
// logged and skipped; installation itself only fails when the cache layer
// cannot store anything at all.
func (c *Controller) Install(ctx context.Context) error {
	for _, p := range c.config.Precache {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
		if err != nil {
			return fmt.Errorf("invalid precache path %s: %w", p, err)
		}
		resp, err := c.fetcher.Fetch(req)
		if err != nil || resp.Status >= 400 {
			c.logger.Warn("precache skipped", "path", p, "error", err)
			continue
		}
		if err := c.put(CacheStatic, req, resp); err != nil {
			return fmt.Errorf("failed to precache %s: %w", p, err)
		}
	}

	c.mu.Lock()
	c.installed = true
	c.mu.Unlock()
	c.logger.Info("cache layer installed", "precache", len(c.config.Precache))
	return nil
}

// Activate prunes every cache generation outside the current allow-list and
// takes over request routing.
func (c *Controller) Activate(ctx context.Context) error {
	removed, err := c.caches.Prune(KnownCaches())
	if err != nil {
		return fmt.Errorf("failed to prune stale caches: %w", err)
	}
	if len(removed) > 0 {
		c.logger.Info("stale caches removed", "names", removed)
	}

	c.mu.Lock()
	c.activated = true
	c.mu.Unlock()
	return nil
}

// Active reports whether Activate has completed.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activated
}

// ServeHTTP resolves a request through the strategy for its class and
// writes the outcome.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := c.Resolve(r)
	writeCached(w, resp)
}

// Resolve applies the caching strategy for the request's class and always
// produces a response, synthesizing a fallback when needed.
func (c *Controller) Resolve(r *http.Request) *CachedResponse {
	switch Classify(r) {
	case ClassAPI:
		return c.networkFirst(r, CacheAPI, c.apiFallback)
	case ClassStatic:
		return c.cacheFirst(r)
	default:
		return c.networkFirst(r, CacheDynamic, c.navigationFallback)
	}
}

// cacheFirst serves static assets from cache, refilling from the network on
// a miss.
func (c *Controller) cacheFirst(r *http.Request) *CachedResponse {
	key := requestKey(r)
	if resp, ok := c.caches.Match(CacheStatic, key); ok {
		return resp
	}

	resp, err := c.fetcher.Fetch(r)
	if err == nil && resp.Status < 400 {
		if putErr := c.put(CacheStatic, r, resp); putErr != nil {
			c.logger.Warn("cache write failed", "key", key, "error", putErr)
		}
		return resp
	}
	if err == nil {
		return resp
	}
	return c.staticFallback(r)
}

// networkFirst tries the upstream, caching successful GET responses, and
// falls back to the named cache when the network is unreachable.
func (c *Controller) networkFirst(r *http.Request, cache string, fallback func(*http.Request) *CachedResponse) *CachedResponse {
	resp, err := c.fetcher.Fetch(r)
	if err == nil {
		if r.Method == http.MethodGet && resp.Status < 400 {
			if putErr := c.put(cache, r, resp); putErr != nil {
				c.logger.Warn("cache write failed", "key", requestKey(r), "error", putErr)
			}
		}
		return resp
	}

	if cached, ok := c.caches.Match(cache, requestKey(r)); ok {
		return cached
	}
	return fallback(r)
}

// apiFallback marks failed writes for later replay, then reports the
// offline condition as JSON.
func (c *Controller) apiFallback(r *http.Request) *CachedResponse {
	if r.Method != http.MethodGet {
		c.markPendingSync(r)
	}
	return &CachedResponse{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{
			"Content-Type":  []string{"application/json; charset=utf-8"},
			"Cache-Control": []string{"no-store"},
		},
		Body:     []byte(`{"error":"offline","message":"network unavailable, request not completed"}` + "\n"),
		StoredAt: time.Now(),
	}
}

func (c *Controller) navigationFallback(r *http.Request) *CachedResponse {
	if c.config.OfflinePath != "" {
		if resp, ok := c.caches.Match(CacheStatic, shellKey(r, c.config.OfflinePath)); ok {
			return resp
		}
	}
	return offlineResponse()
}

func (c *Controller) staticFallback(r *http.Request) *CachedResponse {
	if !isImageRequest(r) {
		return notFoundResponse(r.URL.Path)
	}
	if c.config.FallbackIcon != "" {
		if resp, ok := c.caches.Match(CacheStatic, shellKey(r, c.config.FallbackIcon)); ok {
			return resp
		}
	}
	return fallbackIconResponse()
}

// markPendingSync records that a write was dropped while offline, so the
// next Sync pass replays it. Failure to record is logged, nothing more.
func (c *Controller) markPendingSync(r *http.Request) {
	marker := []byte(fmt.Sprintf(`{"tag":%q,"markedAt":%q}`, SyncTag, time.Now().Format(time.RFC3339)))
	if err := c.store.Save(r.Context(), core.KeyPendingSync, marker); err != nil {
		c.logger.Warn("failed to mark pending sync", "error", err)
		return
	}
	c.logger.Info("write deferred until reconnect", "method", r.Method, "path", r.URL.Path)
}

// Sync replays deferred work when connectivity returns. Only the known tag
// is honored; anything else is ignored.
func (c *Controller) Sync(ctx context.Context, tag string) error {
	if tag != SyncTag {
		c.logger.Debug("ignoring unknown sync tag", "tag", tag)
		return nil
	}
	syncer, ok := c.store.(core.Syncable)
	if !ok {
		return nil
	}
	if err := syncer.Sync(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	c.logger.Info("deferred memos synced", "tag", tag)
	return nil
}

func (c *Controller) put(cache string, r *http.Request, resp *CachedResponse) error {
	stored := resp.Clone()
	stored.StoredAt = time.Now()
	return c.caches.Put(cache, requestKey(r), stored)
}

// requestKey is the cache key: method plus full URL, so query strings
// produce distinct entries.
func requestKey(r *http.Request) string {
	return r.Method + " " + r.URL.String()
}

// shellKey builds the lookup key for a precached shell asset, discarding
// the failing request's query so cache entries stored at install time are
// found regardless of how the original request was addressed.
func shellKey(r *http.Request, path string) string {
	u := *r.URL
	u.Path = path
	u.RawPath = ""
	u.RawQuery = ""
	return http.MethodGet + " " + u.String()
}

func writeCached(w http.ResponseWriter, resp *CachedResponse) {
	for k, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}
