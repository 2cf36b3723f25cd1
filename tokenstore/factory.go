package tokenstore

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-nightlife-client/internal/config"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
)

// Driver identifiers accepted by New.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// New creates the token store selected by cfg.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	driver := cfg.GetTokenStoreDriver()
	if driver == "" {
		driver = DriverFile
	}

	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(cfg.GetTokenFile())
	case DriverRedis:
		return NewRedis(ctx, RedisConfig{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Prefix:   cfg.GetRedisPrefix(),
		})
	case DriverSQLite:
		db, err := OpenSQLite(cfg.GetSQLiteDSN())
		if err != nil {
			return nil, err
		}
		return NewSQLite(db)
	default:
		return nil, fmt.Errorf("[tokenstore New] %q: %w", driver, apperrors.ErrUnsupportedDriver)
	}
}
