package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/krushiiq/apiserver/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateUp applies all pending migrations for the PostgreSQL backend.
func MigrateUp(cfg config.Config) error {
	return runMigrations(cfg, func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateDown reverts the given number of migrations.
func MigrateDown(cfg config.Config, steps int) error {
	if steps < 1 {
		return errors.New("steps must be positive")
	}
	return runMigrations(cfg, func(m *migrate.Migrate) error { return m.Steps(-steps) })
}

func runMigrations(cfg config.Config, apply func(m *migrate.Migrate) error) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, PostgresURL(cfg))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := apply(migrator); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate failed: %w", err)
	}
	return nil
}
