package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver

	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
)

// sourceURL turns a plain migrations directory path into a file:// source
// URL, leaving already-qualified URLs alone.
func sourceURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}

// newMigrator builds a migrate instance from the database configuration.
func newMigrator(cfg config.DatabaseConfig) (*migrate.Migrate, error) {
	m, err := migrate.New(sourceURL(cfg.MigrationPath), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrator: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending schema migrations.  It is called on
// worker startup so the schema is always current before the first sweep; a
// database already at the latest version is a no-op.
func RunMigrations(cfg config.DatabaseConfig) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// RollbackMigration reverts the most recently applied migration.  Intended
// for operator use via the CLI, not for application code.
func RollbackMigration(cfg config.DatabaseConfig) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// MigrationStatus reports the current schema version and whether the
// database is in a dirty (half-applied) state.
func MigrationStatus(cfg config.DatabaseConfig) (version uint, dirty bool, err error) {
	m, err := newMigrator(cfg)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}

// ForceMigrationVersion stamps the schema version without running any
// migration.  Only useful to recover from a dirty state after a failed
// migration has been repaired by hand.
func ForceMigrationVersion(cfg config.DatabaseConfig, version int) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return fmt.Errorf("failed to force migration version: %w", err)
	}
	return nil
}
