package storage

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/config"
	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
)

func newMigrator(cfg *config.PostgresConfig, migrationsPath string) (*migrate.Migrate, error) {
	m, err := migrate.New("file://"+migrationsPath, cfg.URL())
	if err != nil {
		return nil, apperrors.NewDatabaseError("open migrations", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logging.GetGlobalLogger().WithFields(map[string]interface{}{
			"source_error":   srcErr,
			"database_error": dbErr,
		}).Warn("failed to close migrator")
	}
}

// RunMigrations applies all pending schema migrations.
func RunMigrations(cfg *config.PostgresConfig, migrationsPath string) error {
	m, err := newMigrator(cfg, migrationsPath)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperrors.NewDatabaseError("apply migrations", err)
	}
	logging.GetGlobalLogger().Info("schema migrations applied")
	return nil
}

// RollbackMigrations reverts the most recent schema migration.
func RollbackMigrations(cfg *config.PostgresConfig, migrationsPath string) error {
	m, err := newMigrator(cfg, migrationsPath)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
		return apperrors.NewDatabaseError("rollback migration", err)
	}
	logging.GetGlobalLogger().Info("schema migration rolled back")
	return nil
}

// MigrationVersion reports the current schema version and whether a
// failed migration left it dirty.
func MigrationVersion(cfg *config.PostgresConfig, migrationsPath string) (uint, bool, error) {
	m, err := newMigrator(cfg, migrationsPath)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return 0, false, apperrors.NewDatabaseError("read migration version", err)
	}
	return version, dirty, nil
}
