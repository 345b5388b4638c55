package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

// maxProjectBody caps the raw session array accepted by /timetable/project.
const maxProjectBody = 8 << 20

type timetableService interface {
	Generate(ctx context.Context) ([]models.ScheduledSession, error)
	Save(ctx context.Context, req dto.SaveSolutionRequest) (*models.TimetableSolution, error)
	LoadLast(ctx context.Context) (*models.TimetableSolution, error)
	LoadLocked(ctx context.Context) (*models.TimetableSolution, error)
	ListSolutions(ctx context.Context) ([]models.SolutionSummary, error)
	LoadByID(ctx context.Context, id string) (*models.TimetableSolution, error)
	ToggleLock(ctx context.Context, id string) (bool, error)
	View(ctx context.Context, query dto.ViewQuery, actor service.Actor) (service.TimetableView, error)
	Project(raw []byte, mode, id string, actor service.Actor) (service.TimetableView, error)
	Export(ctx context.Context, id string, format service.ExportFormat, groupFilter string) (*service.ExportFile, error)
}

// TimetableHandler exposes timetable generation, storage and views.
type TimetableHandler struct {
	service timetableService
	// projectLimit overrides maxProjectBody when positive.
	projectLimit int64
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate a timetable
// @Description Runs the feasibility checks over current master data, then the solver. The result is not saved.
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	sessions, err := h.service.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.GenerateResponse{
		Message:   "Timetable generated successfully.",
		Timetable: sessions,
	})
}

// Save godoc
// @Summary Save a timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SaveSolutionRequest true "Sessions and lock flag"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/save [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveSolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid payload"), err.Error()))
		return
	}
	solution, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.SaveSolutionResponse{
		Message:   "Timetable saved successfully.",
		ID:        solution.ID,
		Timestamp: solution.Timestamp,
		IsLocked:  solution.IsLocked,
	})
}

// LoadLast godoc
// @Summary Load the latest saved timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/load-last [get]
func (h *TimetableHandler) LoadLast(c *gin.Context) {
	solution, err := h.service.LoadLast(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSolutionResponse("Last saved timetable loaded successfully.", solution))
}

// LoadLocked godoc
// @Summary Load the published timetable
// @Description Returns the most recently created locked solution. NO_PUBLISHED when none is locked.
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/load-locked [get]
func (h *TimetableHandler) LoadLocked(c *gin.Context) {
	solution, err := h.service.LoadLocked(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSolutionResponse("Last locked timetable loaded successfully.", solution))
}

// ListSolutions godoc
// @Summary List saved timetables
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/solutions [get]
func (h *TimetableHandler) ListSolutions(c *gin.Context) {
	summaries, err := h.service.ListSolutions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, map[string]interface{}{"total": len(summaries)})
}

// LoadByID godoc
// @Summary Load a saved timetable by id
// @Tags Timetable
// @Produce json
// @Param id path string true "Solution ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/load/{id} [get]
func (h *TimetableHandler) LoadByID(c *gin.Context) {
	id := c.Param("id")
	solution, err := h.service.LoadByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSolutionResponse("Solution "+id+" loaded successfully.", solution))
}

// ToggleLock godoc
// @Summary Toggle the lock flag of a saved timetable
// @Tags Timetable
// @Produce json
// @Param id path string true "Solution ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/lock/{id} [post]
func (h *TimetableHandler) ToggleLock(c *gin.Context) {
	id := c.Param("id")
	locked, err := h.service.ToggleLock(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	state := "UNLOCKED"
	if locked {
		state = "LOCKED"
	}
	response.JSON(c, http.StatusOK, dto.LockToggleResponse{
		Message:  "Solution " + id + " lock status updated to " + state + ".",
		ID:       id,
		IsLocked: locked,
	})
}

// View godoc
// @Summary Project a stored timetable into group or teacher grids
// @Tags Timetable
// @Produce json
// @Param solutionId query string false "Solution ID, published when empty"
// @Param mode query string false "group or teacher"
// @Param id query string false "Group filter or teacher id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/view [get]
func (h *TimetableHandler) View(c *gin.Context) {
	var query dto.ViewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid query"), err.Error()))
		return
	}
	view, err := h.service.View(c.Request.Context(), query, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Project godoc
// @Summary Project a raw session array
// @Description Malformed input yields an empty view rather than an error.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param mode query string false "group or teacher"
// @Param id query string false "Group filter or teacher id"
// @Success 200 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /timetable/project [post]
func (h *TimetableHandler) Project(c *gin.Context) {
	limit := h.projectLimit
	if limit <= 0 {
		limit = maxProjectBody
	}
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.WithDetails(appErrors.ErrPayloadTooLarge, fmt.Sprintf("session array exceeds %d bytes", tooLarge.Limit)))
			return
		}
		response.Error(c, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "unreadable body"), err.Error()))
		return
	}
	view, err := h.service.Project(raw, c.Query("mode"), c.Query("id"), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Export godoc
// @Summary Download a saved timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Solution ID"
// @Param format query string false "csv (default) or pdf"
// @Param group query string false "Only this group"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /timetable/solutions/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid query"), err.Error()))
		return
	}
	format := service.ExportFormat(strings.ToLower(query.Format))
	if format == "" {
		format = service.ExportFormatCSV
	}
	file, err := h.service.Export(c.Request.Context(), c.Param("id"), format, query.Group)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}
