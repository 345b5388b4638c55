package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/pkg/config"
)

func TestSQLiteMigrationsApply(t *testing.T) {
	db, err := NewSQLite(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "timetable.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator, err := NewMigrator(db, config.DriverSQLite)
	require.NoError(t, err)

	version, err := migrator.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	statuses, err := migrator.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, goose.StateApplied, statuses[0].State)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM timetable_solutions`))
	assert.Zero(t, count)
}

func TestNewMigratorRejectsUnknownDriver(t *testing.T) {
	_, err := NewMigrator(nil, "mysql")
	assert.Error(t, err)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
