package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache generation. Bumping the suffix retires every older generation at
// activate time via the allow-list diff.
const cacheVersion = "v1"

// The three named caches.
var (
	CacheStatic  = "clipmemo-static-" + cacheVersion
	CacheDynamic = "clipmemo-dynamic-" + cacheVersion
	CacheAPI     = "clipmemo-api-" + cacheVersion
)

// KnownCaches is the live allow-list: any cache directory not named here is
// deleted when the controller activates.
func KnownCaches() []string {
	return []string{CacheStatic, CacheDynamic, CacheAPI}
}

// CachedResponse is a stored copy of an upstream response.
type CachedResponse struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

// Clone returns an independent copy, so one stored entry can be served to
// multiple clients without sharing the body slice.
func (r *CachedResponse) Clone() *CachedResponse {
	out := &CachedResponse{
		Status:   r.Status,
		Header:   make(http.Header, len(r.Header)),
		Body:     make([]byte, len(r.Body)),
		StoredAt: r.StoredAt,
	}
	for k, v := range r.Header {
		out.Header[k] = append([]string(nil), v...)
	}
	copy(out.Body, r.Body)
	return out
}

// cacheIndex maps request keys to entry filenames within one named cache.
type cacheIndex struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
	dirty   bool
}

// DiskCache manages the named response caches under one root directory.
// Each named cache is a subdirectory with an index.json plus one file per
// stored response; index and entries are written atomically.
type DiskCache struct {
	root string

	mu      sync.RWMutex
	indexes map[string]*cacheIndex
}

// OpenCaches opens (creating if needed) the given named caches under root.
func OpenCaches(root string, names ...string) (*DiskCache, error) {
	c := &DiskCache{
		root:    root,
		indexes: make(map[string]*cacheIndex),
	}
	for _, name := range names {
		if err := c.open(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *DiskCache) open(name string) error {
	dir := filepath.Join(c.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache %s: %w", name, err)
	}

	idx := &cacheIndex{Version: 1, Entries: make(map[string]string)}
	data, err := os.ReadFile(filepath.Join(dir, "index.json"))
	if err == nil {
		// Corruption self-heals: an unreadable index starts empty.
		if jsonErr := json.Unmarshal(data, idx); jsonErr != nil {
			idx = &cacheIndex{Version: 1, Entries: make(map[string]string)}
		}
	}

	c.mu.Lock()
	c.indexes[name] = idx
	c.mu.Unlock()
	return nil
}

// Put stores a response under the exact request key in the named cache.
func (c *DiskCache) Put(cache, key string, resp *CachedResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.indexes[cache]
	if !ok {
		return fmt.Errorf("unknown cache: %s", cache)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode cached response: %w", err)
	}

	entry := entryFilename(key)
	if err := writeFileAtomic(filepath.Join(c.root, cache, entry), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	idx.Entries[key] = entry
	idx.dirty = true
	return c.saveIndexLocked(cache)
}

// Match retrieves the stored response for the exact request key, if any.
func (c *DiskCache) Match(cache, key string) (*CachedResponse, bool) {
	c.mu.RLock()
	idx, ok := c.indexes[cache]
	if !ok {
		c.mu.RUnlock()
		return nil, false
	}
	entry, ok := idx.Entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(c.root, cache, entry))
	if err != nil {
		return nil, false
	}
	var resp CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Names lists every cache directory currently on disk, including stale
// generations left behind by older versions.
func (c *DiskCache) Names() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Prune deletes every cache directory whose name is not in the allow-list
// and reports what it removed. This is the activate-time schema migration:
// compare the live allow-list against existing instances, delete the rest.
func (c *DiskCache) Prune(allow []string) ([]string, error) {
	allowed := make(map[string]bool, len(allow))
	for _, name := range allow {
		allowed[name] = true
	}

	names, err := c.Names()
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range names {
		if allowed[name] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.root, name)); err != nil {
			return removed, fmt.Errorf("failed to delete cache %s: %w", name, err)
		}
		c.mu.Lock()
		delete(c.indexes, name)
		c.mu.Unlock()
		removed = append(removed, name)
	}
	return removed, nil
}

// saveIndexLocked persists a cache's index. Caller holds c.mu.
func (c *DiskCache) saveIndexLocked(cache string) error {
	idx := c.indexes[cache]
	if !idx.dirty {
		return nil
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(c.root, cache, "index.json"), data, 0644); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

// entryFilename derives a stable filename from the request key.
func entryFilename(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16]) + ".json"
}
