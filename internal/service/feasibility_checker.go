package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

// FeasibilityChecker runs the necessary-condition checks that must pass
// before the solver is invoked. Passing them does not guarantee a solution.
type FeasibilityChecker struct {
	logger *zap.Logger
}

// NewFeasibilityChecker constructs a checker.
func NewFeasibilityChecker(logger *zap.Logger) *FeasibilityChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeasibilityChecker{logger: logger}
}

// Check reports the first violated rule in order: room capacity, course
// hours, teacher load.
func (c *FeasibilityChecker) Check(snapshot models.MasterDataSnapshot) error {
	totalSlots := snapshot.TotalSlots()

	maxCapacity := 0
	for _, room := range snapshot.Rooms {
		if room.Capacity > maxCapacity {
			maxCapacity = room.Capacity
		}
	}
	for _, course := range snapshot.Courses {
		if course.Size > maxCapacity {
			c.logger.Warn("room capacity conflict", zap.String("group", course.Group), zap.Int("size", course.Size), zap.Int("max_capacity", maxCapacity))
			return appErrors.WithDetails(appErrors.ErrRoomCapacityConflict, fmt.Sprintf(
				"Course group %s (Size: %d) requires more capacity than the largest room available (Max Capacity: %d).",
				course.Group, course.Size, maxCapacity))
		}
	}

	for _, course := range snapshot.Courses {
		if course.Hours > totalSlots {
			c.logger.Warn("course hours conflict", zap.String("course", course.Course), zap.Int("hours", course.Hours), zap.Int("total_slots", totalSlots))
			return appErrors.WithDetails(appErrors.ErrCourseHoursConflict, fmt.Sprintf(
				"Course %s requires %d hours/week, which exceeds the total %d available time slots.",
				course.Course, course.Hours, totalSlots))
		}
	}

	for _, teacher := range snapshot.Teachers {
		load := 0
		for _, course := range snapshot.Courses {
			if teacher.QualifiedFor(course.Course) {
				load += course.Hours
			}
		}
		if load > totalSlots {
			c.logger.Warn("teacher load conflict", zap.String("teacher", teacher.ID), zap.Int("hours", load), zap.Int("total_slots", totalSlots))
			return appErrors.WithDetails(appErrors.ErrTeacherLoadConflict, fmt.Sprintf(
				"Teacher %s is qualified for courses requiring a total of %d hours, which exceeds the absolute maximum of %d slots per week. The problem is guaranteed to be infeasible.",
				teacher.Name, load, totalSlots))
		}
	}
	return nil
}
