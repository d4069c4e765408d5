package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver
)

// RunMigrations applies all pending migrations.  Called on startup; a schema
// that is already current is not an error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RollbackMigration rolls the schema back by the given number of steps.
// Development and test use only.
func RollbackMigration(dbURL, migrationsPath string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0, got %d", steps)
	}
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("failed to rollback %d step(s): %w", steps, err)
	}
	return nil
}

// MigrationStatus reports the current schema version and whether a previous
// migration failed partway (dirty state).
func MigrationStatus(dbURL, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}
