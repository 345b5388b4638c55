package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

// ExportFormat is a supported download format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var exportHeaders = []string{"Group", "Day", "Period", "Course", "Teacher", "Room"}

type csvRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders stored solutions as CSV or PDF group timetables.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger}
}

// BuildDocument lays out a solution as one section per sorted group, rows in
// day then period order.
func BuildDocument(solution *models.TimetableSolution, groupFilter string) export.Document {
	view := GroupView(solution.Sessions, groupFilter)
	doc := export.Document{
		Title:    "Timetable",
		Subtitle: fmt.Sprintf("Solution %s, generated %s", solution.ID, solution.Timestamp.UTC().Format("2006-01-02 15:04 MST")),
		Headers:  exportHeaders,
		Sections: make([]export.Section, 0, len(view.IDs)),
	}
	for _, group := range view.IDs {
		grid := view.Grid[group]
		section := export.Section{Title: "Group " + group}
		for n := 1; n <= WeekSlots(); n++ {
			pos, _ := DecodeOrdinal(n)
			cell, ok := grid[pos.Key()]
			if !ok {
				continue
			}
			section.Rows = append(section.Rows, []string{
				group, pos.Day, fmt.Sprintf("P%d", pos.Period), cell.Course, cell.Teacher, cell.Room,
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

// Render builds and encodes the export of solution.
func (s *ExportService) Render(solution *models.TimetableSolution, format ExportFormat, groupFilter string) (*ExportFile, error) {
	if solution == nil {
		return nil, appErrors.ErrNotFound
	}
	doc := BuildDocument(solution, groupFilter)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(doc)
		contentType = "text/csv; charset=utf-8"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(doc)
		contentType = "application/pdf"
	default:
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "unsupported export format"), fmt.Sprintf("format %q must be csv or pdf", format))
	}
	if err != nil {
		s.logger.Error("timetable export failed", zap.String("solution_id", solution.ID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    buildFilename(solution, groupFilter, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

func buildFilename(solution *models.TimetableSolution, groupFilter string, format ExportFormat) string {
	name := "timetable_" + sanitizeFilename(solution.ID)
	if groupFilter != "" {
		name += "_" + sanitizeFilename(groupFilter)
	}
	return fmt.Sprintf("%s_%s.%s", name, solution.Timestamp.UTC().Format("20060102_150405"), format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
