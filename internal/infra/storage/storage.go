package storage

import (
	"context"
	"fmt"

	"go-heartbeat/configs"
	"go-heartbeat/internal/domain/gateway/store"
	"go-heartbeat/internal/infra/database/sqlc"
	"go-heartbeat/pkg/log"
)

// Storage is the status store selected by STORE_DRIVER.
type Storage struct {
	Store store.StatusStore
	close func() error
}

// Close releases the store connection.
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects the configured status store.
func Open(ctx context.Context, config *configs.EnvConfig) (*Storage, error) {
	switch config.Store.Driver {
	case configs.StorePostgres:
		db, err := sqlc.Open(ctx, config.Store.Postgres)
		if err != nil {
			return nil, err
		}
		statusStore := store.NewSQLCStatusStore(db)
		if err := statusStore.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create status table: %w", err)
		}
		log.Infof("Connected to Postgres status store at %s:%d", config.Store.Postgres.Host, config.Store.Postgres.Port)
		return &Storage{Store: statusStore, close: db.Close}, nil

	case configs.StoreRedis:
		client, err := NewRedisClient(config.Redis)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Infof("Connected to Redis status store at %s:%d", config.Redis.Host, config.Redis.Port)
		return &Storage{Store: store.NewRedisStatusStore(client), close: client.Close}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", config.Store.Driver)
}
