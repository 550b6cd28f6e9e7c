package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"organmatch/migrations"
)

// Migrate applies pending schema migrations. An empty sourceURL uses the
// migrations embedded in the binary.
func (s *TableStore) Migrate(sourceURL string) error {
	var (
		driver database.Driver
		err    error
	)
	switch s.driver {
	case DriverPostgres:
		driver, err = postgres.WithInstance(s.db, &postgres.Config{})
	case DriverSQLite:
		driver, err = sqlite.WithInstance(s.db, &sqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", s.driver)
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	var m *migrate.Migrate
	if sourceURL == "" {
		src, err := iofs.New(migrations.FS, ".")
		if err != nil {
			return fmt.Errorf("embedded migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, s.driver, driver)
		if err != nil {
			return fmt.Errorf("migration init: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance(sourceURL, s.driver, driver)
		if err != nil {
			return fmt.Errorf("migration init: %w", err)
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
