package fs

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/clipmemo/pkg/core"
)

// Watch reports external writes to the vault's key files until ctx ends.
//
// The pattern is a doublestar glob over storage keys ("*" for everything).
// Events only say that a key changed; reconciling is the caller's problem
// and the policy is last-write-wins.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(s, pattern, events)

	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	// Tear down with the context: stop the worker first (which drains the
	// debouncer), then close the channel for range-style consumers.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		_ = w.Stop(context.Background())
		close(events)
		return nil
	})

	return events, nil
}

var _ core.Watchable = (*Store)(nil)
