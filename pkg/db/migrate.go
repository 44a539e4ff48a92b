package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"voyage/pkg/config"
)

// DefaultMigrationsPath is used by the dev migrate tool when MIGRATIONS_PATH is unset.
const DefaultMigrationsPath = "file://migrations"

// MigrateConfig applies every pending up migration. Already being at the
// latest version is not an error.
func MigrateConfig(migrationsPath string, cfg config.Config) error {
	if migrationsPath == "" {
		migrationsPath = DefaultMigrationsPath
	}
	m, err := migrate.New(migrationsPath, migrationConnString(cfg))
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}
	return nil
}
