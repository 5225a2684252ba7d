package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/service"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
	"github.com/noah-isme/uni-timetable-api/pkg/response"
)

// GenerationHandler exposes the timetable generation run.
type GenerationHandler struct {
	service  *service.GenerationService
	workload *service.WorkloadService
}

// NewGenerationHandler constructs handler.
func NewGenerationHandler(svc *service.GenerationService, workload *service.WorkloadService) *GenerationHandler {
	return &GenerationHandler{service: svc, workload: workload}
}

// Generate godoc
// @Summary Generate a term timetable
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation request"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.workload != nil {
		// The run rewrote the term's schedules, cached reports are stale.
		h.workload.InvalidateTerm(c.Request.Context(), req.Semester, req.AcademicYear)
	}
	response.JSON(c, http.StatusOK, result, nil)
}
