package models

import "time"

// ScheduledSession is one (group, slot, course, teacher, room) assignment
// produced by the solver.
type ScheduledSession struct {
	Group      string `json:"group" validate:"required"`
	Slot       string `json:"slot" validate:"required"`
	CourseName string `json:"course_name" validate:"required"`
	Teacher    string `json:"teacher" validate:"required"`
	Room       string `json:"room" validate:"required"`
}

// TimetableSolution is a persisted list of sessions. Only IsLocked changes
// after creation.
type TimetableSolution struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Sessions  []ScheduledSession `json:"timetable"`
	IsLocked  bool               `json:"isLocked"`
}

// SolutionSummary is the history entry of a solution, without sessions.
type SolutionSummary struct {
	ID        string    `db:"id" json:"id"`
	Timestamp time.Time `db:"created_at" json:"timestamp"`
	IsLocked  bool      `db:"is_locked" json:"isLocked"`
}

// MasterDataSnapshot is a read-only view of the master data taken before a
// solve.
type MasterDataSnapshot struct {
	Teachers []Teacher
	Rooms    []Room
	Courses  []Course
	Slots    []Slot
	Groups   []Group
}

// TotalSlots is the size of the calendar catalog.
func (s MasterDataSnapshot) TotalSlots() int {
	return len(s.Slots)
}
