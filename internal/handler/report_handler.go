package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/service"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type reportService interface {
	RenderBookings(ctx context.Context, format service.ReportFormat) (*service.Report, error)
}

// ReportHandler streams admin booking reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Bookings godoc
// @Summary Download a bookings report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /admin/reports/bookings [get]
func (h *ReportHandler) Bookings(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", string(service.ReportCSV)))

	report, err := h.service.RenderBookings(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
