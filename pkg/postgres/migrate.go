package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver
)

// RunMigrations applies every pending up migration from migrationsDir
// against the database at dsn. A bare directory path is accepted; the
// file:// scheme is added when missing. No pending migrations is not an
// error.
func RunMigrations(dsn, migrationsDir string) error {
	return runMigration(dsn, migrationsDir, func(m *migrate.Migrate) error { return m.Up() })
}

// RunMigrationsDown rolls the schema all the way back. Used by integration
// test teardown, never by the server.
func RunMigrationsDown(dsn, migrationsDir string) error {
	return runMigration(dsn, migrationsDir, func(m *migrate.Migrate) error { return m.Down() })
}

func runMigration(dsn, migrationsDir string, step func(*migrate.Migrate) error) error {
	m, err := migrate.New(sourceURL(migrationsDir), dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

func sourceURL(dir string) string {
	if strings.Contains(dir, "://") {
		return dir
	}
	return "file://" + dir
}
