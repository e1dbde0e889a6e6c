package db

import (
	"context"
	"fmt"

	"github.com/krushiiq/apiserver/config"
	"github.com/krushiiq/apiserver/internal/store"
)

// Supported values of DB_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// OpenGateway connects the document store selected by cfg.Database.Driver
// and declares the unique indexes the repositories rely on.
func OpenGateway(ctx context.Context, cfg config.Config) (store.Gateway, error) {
	var gw store.Gateway

	switch cfg.Database.Driver {
	case DriverMongo, "":
		client, err := OpenMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		gw = store.NewMongoGateway(client, cfg.Database.DBName)
	case DriverPostgres:
		sqlDB, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		gw = store.NewPostgresGateway(sqlDB)
	case DriverMemory:
		gw = store.NewMemoryGateway()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := store.EnsureIndexes(ctx, gw); err != nil {
		_ = gw.Close(context.Background())
		return nil, err
	}
	return gw, nil
}
