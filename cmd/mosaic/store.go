package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/mosaic/internal/config"
	"github.com/aretw0/mosaic/pkg/adapters/file"
	"github.com/aretw0/mosaic/pkg/adapters/memory"
	redisadapter "github.com/aretw0/mosaic/pkg/adapters/redis"
	"github.com/aretw0/mosaic/pkg/persistence/middleware"
	"github.com/aretw0/mosaic/pkg/ports"
	"github.com/aretw0/mosaic/pkg/session"
)

// backing is the store chosen by the configuration, plus the manager options it needs.
type backing struct {
	store   ports.WorkspaceStore
	options []session.Option
	closer  io.Closer
}

func (b backing) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// openStore connects the configured workspace store. Redis stores come with a
// distributed locker so several replicas can serve the same workspaces. Every
// driver but memory expires workspaces left idle for store.ttl.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (backing, error) {
	b := backing{options: []session.Option{session.WithLockTTL(cfg.Store.LockTTL)}}

	switch cfg.Store.Driver {
	case config.DriverRedis:
		rc := cfg.Store.Redis
		store := redisadapter.New(rc.Addr, rc.Password, rc.DB,
			redisadapter.WithTTL(cfg.Store.TTL),
			redisadapter.WithPrefix(rc.Prefix+"workspace:"),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return backing{}, fmt.Errorf("failed to reach redis at %s: %w", rc.Addr, err)
		}
		logger.Info("Using redis store", "addr", rc.Addr, "db", rc.DB, "ttl", cfg.Store.TTL)
		b.store, b.closer = store, store
		b.options = append(b.options, session.WithLocker(redisadapter.NewLocker(store.Client(), rc.Prefix)))
	case config.DriverFile:
		store := file.New(cfg.Store.File.Dir, file.WithTTL(cfg.Store.TTL))
		logger.Info("Using file store", "dir", store.BasePath, "ttl", cfg.Store.TTL)
		b.store = store
	default:
		logger.Info("Using in-memory store")
		b.store = memory.NewStore()
	}

	store, err := protect(cfg, b.store, logger)
	if err != nil {
		b.Close()
		return backing{}, err
	}
	b.store = store
	return b, nil
}

// protect wraps store with the configured redaction and encryption, in that order.
func protect(cfg config.Config, store ports.WorkspaceStore, logger *slog.Logger) (ports.WorkspaceStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Store.Redact) > 0 {
		redact, err := middleware.NewRedactionMiddleware(cfg.Store.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, redact)
		logger.Info("Redacting tool state", "patterns", cfg.Store.Redact)
	}

	active, fallback, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
		logger.Info("Encrypting tool state at rest", "fallback_keys", len(fallback))
	}
	return middleware.Chain(store, mws...), nil
}
