package repository

import (
	"context"
	"fmt"

	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/database"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

// pgOwnedStore closes the connection pool it was opened with
type pgOwnedStore struct {
	ports.KeyValueStore
	db *database.DB
}

func (s *pgOwnedStore) Close() error {
	return s.db.Close()
}

func (s *pgOwnedStore) Ping(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

func (s *pgOwnedStore) Stats() map[string]interface{} {
	return s.db.GetConnectionInfo()
}

// Open builds the key-value store selected by cfg.Storage.Driver
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return NewMemoryStore(), nil

	case "file":
		log.Debugw("Using file store", "path", cfg.Storage.FilePath)
		return NewFileStore(cfg.Storage.FilePath), nil

	case "redis":
		store, err := NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Infow("Redis store connected", "addr", cfg.Redis.GetAddr())
		return store, nil

	case "postgres":
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateUp(); err != nil {
			db.Close()
			return nil, err
		}
		log.Infow("Postgres store connected", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return &pgOwnedStore{KeyValueStore: NewPostgresStore(db.DB), db: db}, nil

	case "firestore":
		store, err := NewFirestoreStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.Collection)
		if err != nil {
			return nil, err
		}
		log.Infow("Firestore store connected", "project", cfg.Firestore.ProjectID, "collection", cfg.Firestore.Collection)
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
