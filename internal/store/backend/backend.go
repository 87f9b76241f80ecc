// Package backend builds the store opener for the configured driver.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mockprep/platform/internal/config"
	"mockprep/platform/internal/store"
	"mockprep/platform/internal/store/mongostore"
	"mockprep/platform/internal/store/sqlstore"
)

func Opener(cfg *config.Config, logger *zap.Logger) (store.Opener, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg := cfg.Postgres
		dsn := sqlstore.PostgresDSN(pg.Host, pg.User, pg.Password, pg.DBName, pg.Port, pg.SSLMode)
		return func(context.Context) (store.Store, error) {
			return sqlstore.Open(sqlstore.DriverPostgres, dsn)
		}, nil
	case config.DriverSQLite:
		return func(context.Context) (store.Store, error) {
			return sqlstore.Open(sqlstore.DriverSQLite, cfg.SQLitePath)
		}, nil
	case config.DriverMongo:
		return func(ctx context.Context) (store.Store, error) {
			return mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
}

// Connect opens the configured backend directly, without the retrying
// handle. It suits one-shot tools.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	open, err := Opener(cfg, logger)
	if err != nil {
		return nil, err
	}
	return open(ctx)
}
