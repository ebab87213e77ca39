package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type mockReportSource struct {
	bookings []models.BookingDetail
	err      error
}

func (m *mockReportSource) ListAllDetailed(ctx context.Context) ([]models.BookingDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

func reportFixture() []models.BookingDetail {
	remaining := 8.5
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []models.BookingDetail{{
		Booking: models.Booking{
			ID:             "b1",
			UserID:         "u1",
			StartDate:      start,
			EndDate:        start.Add(30 * 24 * time.Hour),
			Status:         models.BookingConfirmed,
			RemainingHours: &remaining,
		},
		Username:    "student1",
		PackageName: "Starter",
		SubjectName: "Algebra",
	}}
}

func TestRenderBookingsCSV(t *testing.T) {
	svc := NewReportService(&mockReportSource{bookings: reportFixture()}, nil)

	report, err := svc.RenderBookings(context.Background(), ReportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", report.ContentType)
	assert.True(t, strings.HasSuffix(report.Filename, ".csv"))

	body := string(report.Content)
	assert.Contains(t, body, "ID,User,Package,Subject,Start,End,Status,Remaining Hours")
	assert.Contains(t, body, "student1")
	assert.Contains(t, body, "confirmed")
	assert.Contains(t, body, "8.50")
}

func TestRenderBookingsPDF(t *testing.T) {
	svc := NewReportService(&mockReportSource{bookings: reportFixture()}, nil)

	report, err := svc.RenderBookings(context.Background(), ReportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasSuffix(report.Filename, ".pdf"))
	require.NotEmpty(t, report.Content)
	assert.True(t, strings.HasPrefix(string(report.Content), "%PDF"))
}

func TestRenderBookingsInvalidFormat(t *testing.T) {
	svc := NewReportService(&mockReportSource{}, nil)

	_, err := svc.RenderBookings(context.Background(), "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "format", appErr.Details[0].Field)
}
