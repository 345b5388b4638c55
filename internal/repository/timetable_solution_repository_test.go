package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
)

func newSolutionRepoMock(t *testing.T) (*TimetableSolutionRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewTimetableSolutionRepository(sqlx.NewDb(db, "postgres")), mock, func() { db.Close() }
}

func sampleSessionList() []models.ScheduledSession {
	return []models.ScheduledSession{{Group: "G1", Slot: "S1", CourseName: "Math", Teacher: "T1", Room: "R1"}}
}

// storedPrecision matches UTC timestamps without sub-microsecond digits.
type storedPrecision struct{}

func (storedPrecision) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && ts.Location() == time.UTC && ts.Equal(ts.Truncate(time.Microsecond))
}

func TestTimetableSolutionRepositoryCreate(t *testing.T) {
	repo, mock, cleanup := newSolutionRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_solutions (id, created_at, sessions, is_locked) VALUES ($1, $2, $3, $4)")).
		WithArgs(sqlmock.AnyArg(), storedPrecision{}, sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	solution, err := repo.Create(context.Background(), sampleSessionList(), true)
	require.NoError(t, err)
	assert.NotEmpty(t, solution.ID)
	assert.False(t, solution.Timestamp.IsZero())
	assert.Equal(t, solution.Timestamp, solution.Timestamp.Truncate(time.Microsecond))
	assert.True(t, solution.IsLocked)
	assert.Equal(t, sampleSessionList(), solution.Sessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSolutionRepositoryGetLatestLocked(t *testing.T) {
	repo, mock, cleanup := newSolutionRepoMock(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "created_at", "sessions", "is_locked"}).
		AddRow("sol-1", now, []byte(`[{"group":"G1","slot":"S1","course_name":"Math","teacher":"T1","room":"R1"}]`), true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_solutions WHERE is_locked = $1 ORDER BY created_at DESC, id DESC LIMIT 1")).
		WithArgs(true).
		WillReturnRows(rows)

	solution, err := repo.GetLatestLocked(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sol-1", solution.ID)
	assert.Equal(t, sampleSessionList(), solution.Sessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSolutionRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock, cleanup := newSolutionRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_solutions WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "sessions", "is_locked"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSolutionRepositoryListSummaries(t *testing.T) {
	repo, mock, cleanup := newSolutionRepoMock(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "created_at", "is_locked"}).
		AddRow("sol-2", now, false).
		AddRow("sol-1", now.Add(-time.Hour), true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, created_at, is_locked FROM timetable_solutions ORDER BY created_at DESC, id DESC")).
		WillReturnRows(rows)

	summaries, err := repo.ListSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "sol-2", summaries[0].ID)
	assert.True(t, summaries[1].IsLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSolutionRepositoryToggleLock(t *testing.T) {
	repo, mock, cleanup := newSolutionRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE timetable_solutions SET is_locked = NOT is_locked WHERE id = $1 RETURNING is_locked")).
		WithArgs("sol-1").
		WillReturnRows(sqlmock.NewRows([]string{"is_locked"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE timetable_solutions SET is_locked = NOT is_locked WHERE id = $1 RETURNING is_locked")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"is_locked"}))

	locked, err := repo.ToggleLock(context.Background(), "sol-1")
	require.NoError(t, err)
	assert.True(t, locked)

	_, err = repo.ToggleLock(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newSQLiteSolutionRepo(t *testing.T) *TimetableSolutionRepository {
	t.Helper()
	db, err := database.NewSQLite(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "timetable.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator, err := database.NewMigrator(db, config.DriverSQLite)
	require.NoError(t, err)
	_, err = migrator.Up(context.Background())
	require.NoError(t, err)
	return NewTimetableSolutionRepository(db)
}

func TestTimetableSolutionRepositoryLifecycleSQLite(t *testing.T) {
	repo := newSQLiteSolutionRepo(t)
	ctx := context.Background()

	_, err := repo.GetLatest(ctx)
	require.ErrorIs(t, err, sql.ErrNoRows)
	_, err = repo.GetLatestLocked(ctx)
	require.ErrorIs(t, err, sql.ErrNoRows)

	created, err := repo.Create(ctx, sampleSessionList(), false)
	require.NoError(t, err)

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, latest.ID)
	assert.True(t, created.Timestamp.Equal(latest.Timestamp), "created %s, read back %s", created.Timestamp, latest.Timestamp)
	assert.Equal(t, created.Sessions, latest.Sessions)
	assert.False(t, latest.IsLocked)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.Timestamp.Equal(byID.Timestamp))

	summaries, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, created.Timestamp.Equal(summaries[0].Timestamp))

	_, err = repo.GetLatestLocked(ctx)
	require.ErrorIs(t, err, sql.ErrNoRows)

	locked, err := repo.ToggleLock(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, locked)

	published, err := repo.GetLatestLocked(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, published.ID)

	_, err = repo.ToggleLock(ctx, "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = repo.GetByID(ctx, "unknown")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTimetableSolutionRepositoryMostRecentLockWinsSQLite(t *testing.T) {
	repo := newSQLiteSolutionRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, sampleSessionList(), true)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := repo.Create(ctx, sampleSessionList(), true)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = repo.Create(ctx, sampleSessionList(), false)
	require.NoError(t, err)

	published, err := repo.GetLatestLocked(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, published.ID)

	summaries, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, first.ID, summaries[2].ID)
	for i := 1; i < len(summaries); i++ {
		assert.False(t, summaries[i].Timestamp.After(summaries[i-1].Timestamp))
	}

	again, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, summaries, again)
}
