package pagevfs

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/pagevfs/vfs"
	"github.com/viant/pagevfs/vfs/memvfs"
	"github.com/viant/pagevfs/vfs/stdvfs"
	"github.com/viant/pagevfs/vfs/uringvfs"
)

// Open builds the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (vfs.Backend, error) {
	cfg.withDefaults()
	switch cfg.Backend {
	case BackendMemory:
		return memvfs.Open(cfg.ArenaSize), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("pagevfs: %s backend requires path", cfg.Backend)
		}
		store, err := stdvfs.Open(ctx, stdvfs.Options{Path: cfg.Path, Lock: cfg.Lock, Logf: cfg.Logf})
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendURing:
		if cfg.Path == "" {
			return nil, fmt.Errorf("pagevfs: %s backend requires path", cfg.Backend)
		}
		mode, err := uringvfs.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		store, err := uringvfs.Open(ctx, uringvfs.Options{
			Path:         cfg.Path,
			Mode:         mode,
			Rings:        cfg.Rings,
			QueueDepth:   cfg.QueueDepth,
			SQThreadIdle: time.Duration(cfg.SQThreadIdleMs) * time.Millisecond,
			Lock:         cfg.Lock,
			Logf:         cfg.Logf,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("pagevfs: unknown backend %q", cfg.Backend)
}
