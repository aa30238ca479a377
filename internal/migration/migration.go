package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table owned by the service. Drivers without SQL migrations get
// their schema from these.
var Models = []any{
	&invoicedomain.Invoice{},
	&invoicedomain.InvoiceItem{},
	&customfielddomain.CustomField{},
}

// Run brings the schema up to date. Postgres applies the embedded SQL migrations under
// an advisory lock and records the applied version; other drivers use AutoMigrate.
func Run(ctx context.Context, conn *gorm.DB, driver string, log *zap.Logger) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if driver != "postgres" {
		if err := conn.WithContext(ctx).AutoMigrate(Models...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("schema auto-migrated", zap.String("driver", driver))
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	version, err := RunMigrations(ctx, sqlDB)
	if err != nil {
		return err
	}
	log.Info("migrations applied", zap.Uint("version", version))
	return nil
}

// RunMigrations applies the embedded migrations to a postgres database and returns the
// resulting schema version.
func RunMigrations(ctx context.Context, db *sql.DB) (uint, error) {
	if db == nil {
		return 0, errors.New("migration database handle is required")
	}

	var version uint
	err := withMigrationLock(ctx, db, func(ctx context.Context) error {
		var err error
		version, err = migrateUp(ctx, db)
		return err
	})
	return version, err
}

func migrateUp(ctx context.Context, db *sql.DB) (uint, error) {
	schema, err := embeddedSchema()
	if err != nil {
		return 0, err
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return 0, fmt.Errorf("create migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}

	if _, err := ensureNotDirty(migrator); err != nil {
		return 0, err
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	current, err := ensureNotDirty(migrator)
	if err != nil {
		return 0, err
	}
	if current != schema.Version {
		return 0, fmt.Errorf("schema version mismatch after migrate: got %d want %d", current, schema.Version)
	}

	if err := recordSchemaState(ctx, db, strconv.FormatUint(uint64(schema.Version), 10), schema.Checksum); err != nil {
		return 0, err
	}
	return current, nil
}

func ensureNotDirty(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}
