package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/timetable-api/internal/models"
)

const solutionColumns = `id, created_at, sessions, is_locked`

type solutionRow struct {
	ID        string         `db:"id"`
	CreatedAt time.Time      `db:"created_at"`
	Sessions  types.JSONText `db:"sessions"`
	IsLocked  bool           `db:"is_locked"`
}

func (row solutionRow) toModel() (*models.TimetableSolution, error) {
	sessions := make([]models.ScheduledSession, 0)
	if len(row.Sessions) > 0 {
		if err := row.Sessions.Unmarshal(&sessions); err != nil {
			return nil, fmt.Errorf("decode sessions of solution %s: %w", row.ID, err)
		}
	}
	return &models.TimetableSolution{
		ID:        row.ID,
		Timestamp: row.CreatedAt,
		Sessions:  sessions,
		IsLocked:  row.IsLocked,
	}, nil
}

// TimetableSolutionRepository persists generated timetables. Rows are never
// rewritten after insert except for the lock flag.
type TimetableSolutionRepository struct {
	db *sqlx.DB
}

// NewTimetableSolutionRepository constructs the repository.
func NewTimetableSolutionRepository(db *sqlx.DB) *TimetableSolutionRepository {
	return &TimetableSolutionRepository{db: db}
}

// Create stores a new solution with a server-assigned id and timestamp. The
// timestamp is cut to microseconds, the precision PostgreSQL keeps, so the
// returned record matches what later reads return.
func (r *TimetableSolutionRepository) Create(ctx context.Context, sessions []models.ScheduledSession, isLocked bool) (*models.TimetableSolution, error) {
	payload, err := json.Marshal(sessions)
	if err != nil {
		return nil, fmt.Errorf("encode sessions: %w", err)
	}
	row := solutionRow{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Sessions:  types.JSONText(payload),
		IsLocked:  isLocked,
	}

	query := r.db.Rebind(`INSERT INTO timetable_solutions (id, created_at, sessions, is_locked) VALUES (?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, row.ID, row.CreatedAt, row.Sessions, row.IsLocked); err != nil {
		return nil, fmt.Errorf("insert timetable solution: %w", err)
	}
	return row.toModel()
}

// GetLatest returns the most recently created solution regardless of lock
// state.
func (r *TimetableSolutionRepository) GetLatest(ctx context.Context) (*models.TimetableSolution, error) {
	query := `SELECT ` + solutionColumns + ` FROM timetable_solutions ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.getOne(ctx, query)
}

// GetLatestLocked returns the most recently created locked solution.
func (r *TimetableSolutionRepository) GetLatestLocked(ctx context.Context) (*models.TimetableSolution, error) {
	query := r.db.Rebind(`SELECT ` + solutionColumns + ` FROM timetable_solutions WHERE is_locked = ? ORDER BY created_at DESC, id DESC LIMIT 1`)
	return r.getOne(ctx, query, true)
}

// GetByID loads a solution by id.
func (r *TimetableSolutionRepository) GetByID(ctx context.Context, id string) (*models.TimetableSolution, error) {
	query := r.db.Rebind(`SELECT ` + solutionColumns + ` FROM timetable_solutions WHERE id = ?`)
	return r.getOne(ctx, query, id)
}

func (r *TimetableSolutionRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.TimetableSolution, error) {
	var row solutionRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return row.toModel()
}

// ListSummaries returns every solution without its sessions, newest first.
func (r *TimetableSolutionRepository) ListSummaries(ctx context.Context) ([]models.SolutionSummary, error) {
	const query = `SELECT id, created_at, is_locked FROM timetable_solutions ORDER BY created_at DESC, id DESC`
	summaries := make([]models.SolutionSummary, 0)
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list timetable solutions: %w", err)
	}
	return summaries, nil
}

// ToggleLock flips the lock flag and returns the new value. sql.ErrNoRows
// is returned for unknown ids.
func (r *TimetableSolutionRepository) ToggleLock(ctx context.Context, id string) (bool, error) {
	query := r.db.Rebind(`UPDATE timetable_solutions SET is_locked = NOT is_locked WHERE id = ? RETURNING is_locked`)
	var locked bool
	if err := r.db.QueryRowxContext(ctx, query, id).Scan(&locked); err != nil {
		if err == sql.ErrNoRows {
			return false, err
		}
		return false, fmt.Errorf("toggle timetable lock: %w", err)
	}
	return locked, nil
}
