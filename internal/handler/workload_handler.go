package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-timetable-api/internal/service"
	"github.com/noah-isme/uni-timetable-api/pkg/response"
)

// WorkloadHandler exposes faculty workload reports.
type WorkloadHandler struct {
	service *service.WorkloadService
}

// NewWorkloadHandler constructs handler.
func NewWorkloadHandler(svc *service.WorkloadService) *WorkloadHandler {
	return &WorkloadHandler{service: svc}
}

// Report godoc
// @Summary Faculty workload report
// @Tags Workload
// @Produce json
// @Param id path string true "Faculty ID"
// @Param semester query string true "Semester"
// @Param academicYear query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id}/workload [get]
func (h *WorkloadHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context(), c.Param("id"), c.Query("semester"), c.Query("academicYear"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// DepartmentSummary godoc
// @Summary Department workload summary
// @Tags Workload
// @Produce json
// @Param id path string true "Department ID"
// @Param semester query string true "Semester"
// @Param academicYear query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/workload [get]
func (h *WorkloadHandler) DepartmentSummary(c *gin.Context) {
	summary, err := h.service.DepartmentSummary(c.Request.Context(), c.Param("id"), c.Query("semester"), c.Query("academicYear"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
