package dto

import (
	"time"

	"github.com/noah-isme/timetable-api/internal/models"
)

// SaveSolutionRequest is the payload of POST /timetable/save.
type SaveSolutionRequest struct {
	Timetable []models.ScheduledSession `json:"timetable" validate:"required,min=1,dive"`
	IsLocked  bool                      `json:"isLocked"`
}

// GenerateResponse wraps a freshly generated, unsaved timetable.
type GenerateResponse struct {
	Message   string                    `json:"message"`
	Timetable []models.ScheduledSession `json:"timetable"`
}

// SaveSolutionResponse acknowledges a stored solution.
type SaveSolutionResponse struct {
	Message   string    `json:"message"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	IsLocked  bool      `json:"isLocked"`
}

// SolutionResponse carries a stored solution with its sessions.
type SolutionResponse struct {
	Message   string                    `json:"message"`
	ID        string                    `json:"id"`
	Timestamp time.Time                 `json:"timestamp"`
	Timetable []models.ScheduledSession `json:"timetable"`
	IsLocked  bool                      `json:"isLocked"`
}

// NewSolutionResponse builds a SolutionResponse from a stored solution.
func NewSolutionResponse(message string, solution *models.TimetableSolution) SolutionResponse {
	return SolutionResponse{
		Message:   message,
		ID:        solution.ID,
		Timestamp: solution.Timestamp,
		Timetable: solution.Sessions,
		IsLocked:  solution.IsLocked,
	}
}

// LockToggleResponse reports the new lock state.
type LockToggleResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	IsLocked bool   `json:"isLocked"`
}

// ViewQuery selects a stored solution and a projection.
type ViewQuery struct {
	SolutionID string `form:"solutionId"`
	Mode       string `form:"mode"`
	ID         string `form:"id"`
}

// ExportQuery selects the export format and an optional group.
type ExportQuery struct {
	Format string `form:"format"`
	Group  string `form:"group"`
}
