package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// RunMigrations applies all pending migrations for driver. No pending
// migrations is not an error. Postgres DSNs must be in URL form.
func RunMigrations(driver string, dataSourceName string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations for %s: %w", driver, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(driver, dataSourceName))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationURL turns a database/sql DSN into the URL form golang-migrate
// expects. SQLite DSNs such as "file:roster.db" become "sqlite3://roster.db".
func MigrationURL(driver string, dataSourceName string) string {
	if driver == "sqlite3" && !strings.HasPrefix(dataSourceName, "sqlite3://") {
		return "sqlite3://" + strings.TrimPrefix(dataSourceName, "file:")
	}
	return dataSourceName
}
