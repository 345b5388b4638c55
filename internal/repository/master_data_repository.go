package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// MasterDataRepository reads teachers, rooms, courses, slots and groups.
// Those tables are maintained elsewhere and only read here.
type MasterDataRepository struct {
	db *sqlx.DB
}

// NewMasterDataRepository constructs the repository.
func NewMasterDataRepository(db *sqlx.DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

// ListTeachers returns all teachers.
func (r *MasterDataRepository) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	const query = `SELECT id, name, qualified_courses, available_days, preferred_periods FROM teachers ORDER BY id`
	teachers := make([]models.Teacher, 0)
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListRooms returns all rooms.
func (r *MasterDataRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name, capacity FROM rooms ORDER BY id`
	rooms := make([]models.Room, 0)
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListCourses returns all courses.
func (r *MasterDataRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, course, hours, group_id, size FROM courses ORDER BY id`
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListSlots returns the calendar catalog.
func (r *MasterDataRepository) ListSlots(ctx context.Context) ([]models.Slot, error) {
	const query = `SELECT id, day, period FROM slots ORDER BY id`
	slots := make([]models.Slot, 0)
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// ListGroups returns all class groups.
func (r *MasterDataRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	const query = `SELECT id, name FROM class_groups ORDER BY id`
	groups := make([]models.Group, 0)
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Snapshot reads every master data table.
func (r *MasterDataRepository) Snapshot(ctx context.Context) (models.MasterDataSnapshot, error) {
	var (
		snapshot models.MasterDataSnapshot
		err      error
	)
	if snapshot.Teachers, err = r.ListTeachers(ctx); err != nil {
		return models.MasterDataSnapshot{}, err
	}
	if snapshot.Rooms, err = r.ListRooms(ctx); err != nil {
		return models.MasterDataSnapshot{}, err
	}
	if snapshot.Courses, err = r.ListCourses(ctx); err != nil {
		return models.MasterDataSnapshot{}, err
	}
	if snapshot.Slots, err = r.ListSlots(ctx); err != nil {
		return models.MasterDataSnapshot{}, err
	}
	if snapshot.Groups, err = r.ListGroups(ctx); err != nil {
		return models.MasterDataSnapshot{}, err
	}
	return snapshot, nil
}
