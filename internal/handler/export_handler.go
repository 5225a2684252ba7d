package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-timetable-api/internal/service"
	"github.com/noah-isme/uni-timetable-api/pkg/response"
)

// ExportHandler renders timetable exports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export a term timetable
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param semester query string true "Semester"
// @Param academicYear query string true "Academic year"
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	payload, err := h.service.Export(
		c.Request.Context(),
		c.Query("semester"),
		c.Query("academicYear"),
		c.DefaultQuery("format", service.ExportFormatCSV),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.FileName))
	c.Data(http.StatusOK, payload.ContentType, payload.Data)
}
