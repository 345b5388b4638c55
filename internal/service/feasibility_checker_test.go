package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func weekCatalog(n int) []models.Slot {
	slots := make([]models.Slot, 0, n)
	for i := 1; i <= n; i++ {
		pos, _ := DecodeOrdinal(i)
		slots = append(slots, models.Slot{ID: fmt.Sprintf("S%d", i), Day: pos.Day, Period: pos.Period})
	}
	return slots
}

func feasibleSnapshot() models.MasterDataSnapshot {
	return models.MasterDataSnapshot{
		Teachers: []models.Teacher{{ID: "T1", Name: "Ada", QualifiedCourses: models.StringList{"Math", "Physics"}}},
		Rooms:    []models.Room{{ID: "R1", Name: "Hall", Capacity: 40}, {ID: "R2", Name: "Lab", Capacity: 25}},
		Courses: []models.Course{
			{ID: "C1", Course: "Math", Hours: 5, Group: "G1", Size: 40},
			{ID: "C2", Course: "Physics", Hours: 4, Group: "G1", Size: 40},
		},
		Slots: weekCatalog(30),
	}
}

func TestFeasibilityCheckerPasses(t *testing.T) {
	checker := NewFeasibilityChecker(nil)
	assert.NoError(t, checker.Check(feasibleSnapshot()))
}

func TestFeasibilityCheckerCourseHours(t *testing.T) {
	snapshot := feasibleSnapshot()
	snapshot.Courses[0].Hours = 31

	err := NewFeasibilityChecker(nil).Check(snapshot)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCourseHoursConflict.Code))

	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Details, "31")
	assert.Contains(t, appErr.Details, "30")
	assert.Equal(t, "Course Math requires 31 hours/week, which exceeds the total 30 available time slots.", appErr.Details)
}

func TestFeasibilityCheckerRoomCapacity(t *testing.T) {
	snapshot := feasibleSnapshot()
	snapshot.Courses[1].Size = 41

	err := NewFeasibilityChecker(nil).Check(snapshot)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrRoomCapacityConflict.Code))
	assert.Equal(t,
		"Course group G1 (Size: 41) requires more capacity than the largest room available (Max Capacity: 40).",
		appErrors.FromError(err).Details)
}

func TestFeasibilityCheckerNoRooms(t *testing.T) {
	snapshot := feasibleSnapshot()
	snapshot.Rooms = nil

	err := NewFeasibilityChecker(nil).Check(snapshot)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrRoomCapacityConflict.Code))
	assert.Contains(t, appErrors.FromError(err).Details, "Max Capacity: 0")
}

func TestFeasibilityCheckerRuleOrder(t *testing.T) {
	snapshot := feasibleSnapshot()
	snapshot.Courses[0].Hours = 31
	snapshot.Courses[1].Size = 41

	err := NewFeasibilityChecker(nil).Check(snapshot)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrRoomCapacityConflict.Code))
}

func TestFeasibilityCheckerTeacherLoad(t *testing.T) {
	snapshot := feasibleSnapshot()
	snapshot.Courses[0].Hours = 20
	snapshot.Courses[1].Hours = 11

	err := NewFeasibilityChecker(nil).Check(snapshot)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrTeacherLoadConflict.Code))
	details := appErrors.FromError(err).Details
	assert.Contains(t, details, "Teacher Ada")
	assert.Contains(t, details, "total of 31 hours")
}

func TestFeasibilityCheckerTeacherLoadIgnoresUnqualifiedCourses(t *testing.T) {
	snapshot := feasibleSnapshot()
	snapshot.Courses = append(snapshot.Courses, models.Course{ID: "C3", Course: "Art", Hours: 25, Group: "G2", Size: 10})

	assert.NoError(t, NewFeasibilityChecker(nil).Check(snapshot))
}
