package repository

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/segyhp/lendbook/internal/config"
)

// OpenStore builds the KVStore selected by STORE_DRIVER. The returned func
// releases its connections.
func OpenStore(cfg config.StoreConfig, logger zerolog.Logger) (KVStore, func() error, error) {
	switch cfg.Driver {
	case config.StoreMemory, "":
		return NewMemoryStore(), func() error { return nil }, nil

	case config.StoreRedis:
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.RedisKeyPrefix), client.Close, nil

	case config.StorePostgres:
		if err := RunMigrations(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		db, err := ConnectPostgres(cfg.DatabaseURL, cfg.MaxOpenConns)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return NewPostgresStore(db, logger), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
