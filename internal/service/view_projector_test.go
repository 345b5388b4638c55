package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func sampleSessions() []models.ScheduledSession {
	return []models.ScheduledSession{
		{Group: "G2", Slot: "S8", CourseName: "History", Teacher: "T2", Room: "R2"},
		{Group: "G1", Slot: "S1", CourseName: "Math", Teacher: "T1", Room: "R1"},
		{Group: "G1", Slot: "S2", CourseName: "Physics", Teacher: "T2", Room: "R1"},
	}
}

func TestGroupViewSingleSession(t *testing.T) {
	view := GroupView([]models.ScheduledSession{{Group: "G1", Slot: "S1", CourseName: "Math", Teacher: "T1", Room: "R1"}}, "")

	assert.Equal(t, []string{"G1"}, view.IDs)
	assert.Equal(t, GridCell{Course: "Math", Teacher: "T1", Room: "R1"}, view.Grid["G1"]["Mon-P1"])
}

func TestGroupViewSortsAndPartitions(t *testing.T) {
	view := GroupView(sampleSessions(), "")

	assert.Equal(t, []string{"G1", "G2"}, view.IDs)
	assert.Len(t, view.Grid["G1"], 2)
	assert.Equal(t, "Physics", view.Grid["G1"]["Mon-P2"].Course)
	assert.Equal(t, "History", view.Grid["G2"]["Tue-P2"].Course)
	assert.Empty(t, view.Grid["G2"]["Tue-P2"].Group)
}

func TestGroupViewFilter(t *testing.T) {
	view := GroupView(sampleSessions(), "G2")
	assert.Equal(t, []string{"G2"}, view.IDs)
	assert.NotContains(t, view.Grid, "G1")

	view = GroupView(sampleSessions(), "G9")
	assert.Empty(t, view.IDs)
	assert.Empty(t, view.Grid)
}

func TestGroupViewCollisionLastWins(t *testing.T) {
	view := GroupView([]models.ScheduledSession{
		{Group: "G1", Slot: "S1", CourseName: "Math", Teacher: "T1", Room: "R1"},
		{Group: "G1", Slot: "S1", CourseName: "Art", Teacher: "T3", Room: "R3"},
	}, "")

	require.Len(t, view.Grid["G1"], 1)
	assert.Equal(t, "Art", view.Grid["G1"]["Mon-P1"].Course)
}

func TestGroupViewSkipsUndecodableSlots(t *testing.T) {
	view := GroupView([]models.ScheduledSession{
		{Group: "G1", Slot: "S31", CourseName: "Math", Teacher: "T1", Room: "R1"},
		{Group: "G1", Slot: "S30", CourseName: "Art", Teacher: "T1", Room: "R1"},
	}, "")

	require.Len(t, view.Grid["G1"], 1)
	assert.Equal(t, "Art", view.Grid["G1"]["Fri-P6"].Course)
}

func TestGroupViewKeepsGroupWithOnlyUndecodableSlots(t *testing.T) {
	view := GroupView([]models.ScheduledSession{
		{Group: "G2", Slot: "S31", CourseName: "Math", Teacher: "T1", Room: "R1"},
		{Group: "G1", Slot: "S1", CourseName: "Art", Teacher: "T2", Room: "R2"},
	}, "")

	assert.Equal(t, []string{"G1", "G2"}, view.IDs)
	require.Contains(t, view.Grid, "G2")
	assert.Empty(t, view.Grid["G2"])
	assert.Equal(t, "Art", view.Grid["G1"]["Mon-P1"].Course)
}

func TestTeacherView(t *testing.T) {
	view := TeacherView([]models.ScheduledSession{{Group: "G1", Slot: "S1", CourseName: "Math", Teacher: "T1", Room: "R1"}}, "T1")

	assert.Equal(t, []string{"T1"}, view.IDs)
	assert.Equal(t, "G1", view.Grid["T1"]["Mon-P1"].Group)
	assert.Equal(t, "Math", view.Grid["T1"]["Mon-P1"].Course)
}

func TestTeacherViewFiltersOtherTeachers(t *testing.T) {
	view := TeacherView(sampleSessions(), "T2")

	assert.Equal(t, []string{"T2"}, view.IDs)
	assert.Len(t, view.Grid["T2"], 2)
	assert.Equal(t, "G2", view.Grid["T2"]["Tue-P2"].Group)

	view = TeacherView(sampleSessions(), "T9")
	assert.Equal(t, []string{"T9"}, view.IDs)
	assert.Empty(t, view.Grid["T9"])
}

func TestProjectRawMalformedInput(t *testing.T) {
	inputs := []string{``, `not json`, `{"group":"G1"}`, `"S1"`, `[{"group":1}]`}
	for _, raw := range inputs {
		view := ProjectRaw([]byte(raw), ViewModeGroup, "")
		assert.NotNil(t, view.IDs, raw)
		assert.Empty(t, view.IDs, raw)
		assert.Empty(t, view.Grid, raw)
	}
}

func TestProjectRawValidInput(t *testing.T) {
	raw := []byte(`[{"group":"G1","slot":"S1","course_name":"Math","teacher":"T1","room":"R1"}]`)

	view := ProjectRaw(raw, ViewModeTeacher, "T1")
	assert.Equal(t, []string{"T1"}, view.IDs)
	assert.Equal(t, "G1", view.Grid["T1"]["Mon-P1"].Group)

	view = ProjectRaw(raw, ViewMode("room"), "R1")
	assert.Empty(t, view.IDs)
}
