package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/export"
)

type bookingReportSource interface {
	ListAllDetailed(ctx context.Context) ([]models.BookingDetail, error)
}

// ReportFormat selects the report encoding.
type ReportFormat string

const (
	ReportCSV ReportFormat = "csv"
	ReportPDF ReportFormat = "pdf"
)

// Report is a rendered file ready to stream.
type Report struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReportService renders admin booking reports.
type ReportService struct {
	source bookingReportSource
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(source bookingReportSource, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{source: source, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter(), logger: logger}
}

// RenderBookings produces a bookings report in the requested format.
func (s *ReportService) RenderBookings(ctx context.Context, format ReportFormat) (*Report, error) {
	if format != ReportCSV && format != ReportPDF {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid report format"),
			[]appErrors.FieldError{{Field: "format", Message: "format must be one of: csv pdf"}})
	}

	bookings, err := s.source.ListAllDetailed(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings for report")
	}

	dataset := bookingDataset(bookings)
	stamp := time.Now().UTC().Format("2006-01-02")

	switch format {
	case ReportPDF:
		content, err := s.pdf.Render(dataset, "Bookings Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &Report{Content: content, ContentType: "application/pdf", Filename: fmt.Sprintf("bookings-%s.pdf", stamp)}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &Report{Content: content, ContentType: "text/csv", Filename: fmt.Sprintf("bookings-%s.csv", stamp)}, nil
	}
}

func bookingDataset(bookings []models.BookingDetail) export.Dataset {
	headers := []string{"ID", "User", "Package", "Subject", "Start", "End", "Status", "Remaining Hours"}
	rows := make([]map[string]string, 0, len(bookings))
	for _, b := range bookings {
		remaining := ""
		if b.RemainingHours != nil {
			remaining = strconv.FormatFloat(*b.RemainingHours, 'f', 2, 64)
		}
		rows = append(rows, map[string]string{
			"ID":              b.ID,
			"User":            b.Username,
			"Package":         b.PackageName,
			"Subject":         b.SubjectName,
			"Start":           b.StartDate.UTC().Format(time.RFC3339),
			"End":             b.EndDate.UTC().Format(time.RFC3339),
			"Status":          string(b.Status),
			"Remaining Hours": remaining,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
