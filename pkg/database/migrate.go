package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/noah-isme/timetable-api/pkg/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Migrator applies the embedded schema migrations with goose.
type Migrator struct {
	db      *sqlx.DB
	dialect goose.Dialect
	dir     string
}

// NewMigrator selects the migration set matching the configured driver.
func NewMigrator(db *sqlx.DB, driver string) (*Migrator, error) {
	switch driver {
	case "", config.DriverPostgres, config.DriverPGX:
		return &Migrator{db: db, dialect: goose.DialectPostgres, dir: "migrations/postgres"}, nil
	case config.DriverSQLite:
		return &Migrator{db: db, dialect: goose.DialectSQLite3, dir: "migrations/sqlite"}, nil
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}

func (m *Migrator) provider() (*goose.Provider, error) {
	sub, err := fs.Sub(migrationFS, m.dir)
	if err != nil {
		return nil, fmt.Errorf("open migration dir %s: %w", m.dir, err)
	}
	provider, err := goose.NewProvider(m.dialect, m.db.DB, sub)
	if err != nil {
		return nil, fmt.Errorf("create goose provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration and returns the resulting version.
func (m *Migrator) Up(ctx context.Context) (int64, error) {
	provider, err := m.provider()
	if err != nil {
		return 0, err
	}
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Status lists every known migration together with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	provider, err := m.provider()
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}
	return statuses, nil
}
