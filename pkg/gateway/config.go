// Package gateway implements the offline cache controller: an HTTP layer
// that sits between clients and the app shell / memo API, applying
// per-resource caching strategies so the application keeps working when the
// upstream is unreachable.
//
// The behavior mirrors the standard service-worker lifecycle: Install opens
// the named caches and precaches the shell, Activate prunes stale cache
// generations and claims clients, and every fetch is routed through one of
// three mutually exclusive strategy rules.
package gateway

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the gateway configuration, usually loaded from YAML.
type Config struct {
	// Listen is the local address to serve on.
	Listen string `yaml:"listen" validate:"required"`

	// Upstream is the origin to proxy to. Empty means local mode: the
	// gateway serves the embedded shell and memo API itself (the upstream
	// "network" then never fails, but the cache layer still records).
	Upstream string `yaml:"upstream" validate:"omitempty,url"`

	// ShellDir is the directory holding the app shell's static assets.
	ShellDir string `yaml:"shell_dir"`

	// OfflinePath is the route of the offline fallback document.
	OfflinePath string `yaml:"offline_path"`

	// FallbackIcon is the route of the icon substituted for images that
	// can be served from neither cache nor network.
	FallbackIcon string `yaml:"fallback_icon"`

	// Precache is the fixed manifest of shell assets loaded into the
	// static cache at install time.
	Precache []string `yaml:"precache"`

	// AllowedOrigins configures CORS for the shell.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// CacheRoot is the directory holding the named response caches.
	// Empty means a "cache" directory under the vault's system dir.
	CacheRoot string `yaml:"cache_root"`

	// PromptTTL bounds how long an install offer stays consumable.
	// Zero means offers never expire on their own.
	PromptTTL time.Duration `yaml:"prompt_ttl"`
}

// CacheDir resolves the response cache directory.
func (c Config) CacheDir() string {
	if c.CacheRoot != "" {
		return c.CacheRoot
	}
	return filepath.Join(os.TempDir(), "clipmemo-cache")
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen:       "127.0.0.1:8799",
		OfflinePath:  "/offline.html",
		FallbackIcon: "/icons/fallback.png",
		Precache: []string{
			"/",
			"/index.html",
			"/manifest.json",
			"/offline.html",
			"/icons/fallback.png",
			"/static/app.js",
			"/static/app.css",
		},
		AllowedOrigins: []string{"http://localhost:*"},
	}
}

// LoadConfig reads and validates a YAML config file. Missing optional
// fields fall back to the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config yaml: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
