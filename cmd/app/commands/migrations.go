package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/credstore/internal/database"
)

var migrationDirs = map[string]string{
	database.DriverPostgres: "postgresql",
	database.DriverMySQL:    "mysql",
}

func migrationsPath(driver string) (string, error) {
	dir, ok := migrationDirs[driver]
	if !ok {
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
	return "file://migrations/" + dir, nil
}

// RunMigrations applies all pending migrations for driver against dsn.
// Returns nil when the schema is already up to date.
func RunMigrations(logger *slog.Logger, driver, dsn string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	path, err := migrationsPath(driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m, err := migrate.New(path, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("schema up to date", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	return nil
}
