package service

import (
	"encoding/json"
	"sort"

	"github.com/noah-isme/timetable-api/internal/models"
)

// ViewMode selects the projection applied to a session list.
type ViewMode string

const (
	ViewModeGroup   ViewMode = "group"
	ViewModeTeacher ViewMode = "teacher"
)

// Valid reports whether m is a known mode.
func (m ViewMode) Valid() bool {
	return m == ViewModeGroup || m == ViewModeTeacher
}

// GridCell is one occupied cell. Group is only filled in teacher views.
type GridCell struct {
	Course  string `json:"course"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
	Group   string `json:"group,omitempty"`
}

// TimetableView is a projection of sessions into per-owner grids keyed by
// "{day}-P{period}".
type TimetableView struct {
	IDs  []string                       `json:"ids"`
	Grid map[string]map[string]GridCell `json:"grid"`
}

func emptyView() TimetableView {
	return TimetableView{IDs: []string{}, Grid: map[string]map[string]GridCell{}}
}

// GroupView partitions sessions by group. A non-empty groupFilter keeps only
// that group. Colliding cells keep the last session. A group listed only with
// undecodable slots still appears, with an empty grid.
func GroupView(sessions []models.ScheduledSession, groupFilter string) TimetableView {
	view := emptyView()
	for _, session := range sessions {
		if groupFilter != "" && session.Group != groupFilter {
			continue
		}
		grid, exists := view.Grid[session.Group]
		if !exists {
			grid = make(map[string]GridCell)
			view.Grid[session.Group] = grid
			view.IDs = append(view.IDs, session.Group)
		}
		pos, ok := DecodeSlot(session.Slot)
		if !ok {
			continue
		}
		grid[pos.Key()] = GridCell{
			Course:  session.CourseName,
			Teacher: session.Teacher,
			Room:    session.Room,
		}
	}
	sort.Strings(view.IDs)
	return view
}

// TeacherView builds the single grid of teacherID, each cell carrying the
// group it belongs to.
func TeacherView(sessions []models.ScheduledSession, teacherID string) TimetableView {
	if teacherID == "" {
		return emptyView()
	}
	grid := make(map[string]GridCell)
	for _, session := range sessions {
		if session.Teacher != teacherID {
			continue
		}
		pos, ok := DecodeSlot(session.Slot)
		if !ok {
			continue
		}
		grid[pos.Key()] = GridCell{
			Course:  session.CourseName,
			Teacher: session.Teacher,
			Room:    session.Room,
			Group:   session.Group,
		}
	}
	return TimetableView{
		IDs:  []string{teacherID},
		Grid: map[string]map[string]GridCell{teacherID: grid},
	}
}

// Project dispatches on mode. For group mode id acts as an optional filter.
func Project(sessions []models.ScheduledSession, mode ViewMode, id string) TimetableView {
	switch mode {
	case ViewModeTeacher:
		return TeacherView(sessions, id)
	case ViewModeGroup:
		return GroupView(sessions, id)
	default:
		return emptyView()
	}
}

// ProjectRaw projects an untrusted JSON session array. Anything that is not
// a list of sessions yields the empty view.
func ProjectRaw(raw []byte, mode ViewMode, id string) TimetableView {
	var sessions []models.ScheduledSession
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return emptyView()
	}
	return Project(sessions, mode, id)
}
