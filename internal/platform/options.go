package platform

import (
	"log/slog"

	"github.com/aretw0/clipmemo/pkg/core"
)

// options holds the internal configuration for the memo vault.
type options struct {
	store  core.Store
	logger *slog.Logger
	config map[string]interface{}
}

// Option defines a functional option for configuring the vault.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		store:  nil,
		logger: nil,
		config: make(map[string]interface{}),
	}
}

// WithAutoInit enables automatic initialization of the vault directory.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the vault.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom storage backend (e.g. a mock).
// If provided, the default filesystem store will be skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithSystemDir allows specifying the hidden directory name.
// Defaults to ".clipmemo" if not set (handled by the store).
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during
// the Watch loop. This lets applications log or react to runtime watcher
// failures (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Write operations (Save, Sync) return an error.
// 2. Initialization (Mkdir) is skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via
// `go run`. By default (true), the vault is redirected to a temporary
// directory to prevent accidental data loss. Setting this to false allows
// operating on the real filesystem even during `go run`.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
