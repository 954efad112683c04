package sqlite

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/passport/internal/auth/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "modernc.org/sqlite"
)

// ApplyMigrations brings the audit schema up to date from the embedded
// migrations. It is safe to call on every start; a dirty schema is an error
// and needs manual repair.
func (s *Store) ApplyMigrations() error {
	instance, err := s.migrator()
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: migrate up: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("sqlite: schema version %d is dirty", version)
	}

	s.schemaVersion = version
	return nil
}

// SchemaVersion is the migration version reached by ApplyMigrations, zero
// before it has run.
func (s *Store) SchemaVersion() uint { return s.schemaVersion }

func (s *Store) migrator() (*migrate.Migrate, error) {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlite: migration driver: %w", err)
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("sqlite: migration source: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return instance, nil
}
