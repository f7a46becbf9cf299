package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/clipmemo/pkg/adapters/fs"
	"github.com/aretw0/clipmemo/pkg/core"
)

// Init prepares the storage backend for a memo vault at the given path.
// It returns the configured core.Store.
func Init(path string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// 1. Check for injected store
	if o.store != nil {
		if err := o.store.Initialize(context.Background()); err != nil {
			return nil, err
		}
		return o.store, nil
	}

	// 2. Build the filesystem store
	store, err := initFS(path, o)
	if err != nil {
		return nil, err
	}

	// 3. Run Initialization
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return store, nil
}

// initFS handles the initialization logic for the filesystem store.
func initFS(path string, o *options) (core.Store, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	isReadOnly, _ := o.config["read_only"].(bool)

	// Default to true (safe) when dev_safety is not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Bypass safety if:
	// 1. ReadOnly is active (inherently safe)
	// 2. User explicitly disabled DevSafety
	bypassSafety := isReadOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolveVaultPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolvedPath)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolvedPath)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolvedPath)
		}
	}

	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	return fs.NewStore(fs.Config{
		Path:         resolvedPath,
		AutoInit:     autoInit,
		MustExist:    mustExist || (!autoInit && !useTemp),
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
		ReadOnly:     isReadOnly,
	}), nil
}

// Sync replays deferred memo writes for the vault at the given path.
func Sync(path string, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var store core.Store
	if o.store != nil {
		store = o.store
	} else {
		// The vault must already exist; Sync never creates one.
		o.config["must_exist"] = true
		var err error
		store, err = initFS(path, o)
		if err != nil {
			return err
		}
	}

	syncable, ok := store.(core.Syncable)
	if !ok {
		return fmt.Errorf("store does not support synchronization")
	}
	return syncable.Sync(context.Background())
}
