package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/uni-timetable-api/internal/models"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type exportScheduleSource interface {
	ListForTermDetailed(ctx context.Context, semester, academicYear string) ([]models.ScheduleDetail, error)
}

// ExportPayload is a rendered export document.
type ExportPayload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders a term's timetable as CSV or PDF.
type ExportService struct {
	schedules exportScheduleSource
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewExportService wires export dependencies.
func NewExportService(schedules exportScheduleSource) *ExportService {
	return &ExportService{
		schedules: schedules,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

var exportHeaders = []string{"Day", "Time", "Subject Code", "Subject", "Faculty", "Room", "Session"}

// Export renders the term timetable in the requested format.
func (s *ExportService) Export(ctx context.Context, semester, academicYear, format string) (*ExportPayload, error) {
	if semester == "" || academicYear == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester and academicYear are required")
	}
	format = strings.ToLower(format)
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	details, err := s.schedules.ListForTermDetailed(ctx, semester, academicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term schedules")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(details))}
	for _, d := range details {
		room := d.RoomNumber
		if d.Building != "" {
			room = fmt.Sprintf("%s %s", d.Building, d.RoomNumber)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":          d.DayOfWeek,
			"Time":         fmt.Sprintf("%s-%s", d.StartTime, d.EndTime),
			"Subject Code": d.SubjectCode,
			"Subject":      d.SubjectName,
			"Faculty":      d.FacultyName,
			"Room":         room,
			"Session":      d.SessionType,
		})
	}

	base := fmt.Sprintf("timetable_%s_%s", sanitizeFileToken(semester), sanitizeFileToken(academicYear))
	if format == ExportFormatCSV {
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportPayload{FileName: base + ".csv", ContentType: "text/csv", Data: data}, nil
	}

	title := fmt.Sprintf("Timetable %s semester %s", semester, academicYear)
	data, err := s.pdf.Render(dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return &ExportPayload{FileName: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
}

func sanitizeFileToken(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, raw)
}
