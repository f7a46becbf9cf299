package platform

import (
	"context"

	"github.com/aretw0/clipmemo/pkg/core"
)

// New builds the full memo service over a vault at the given path.
//
//	svc, err := clipmemo.New("./memos", clipmemo.WithAutoInit(true))
func New(path string, opts ...Option) (*core.Manager, error) {
	store, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return core.NewManager(context.Background(), store, o.logger)
}
