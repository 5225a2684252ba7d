package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/service"
	"github.com/noah-isme/uni-timetable-api/pkg/response"
)

// CatalogHandler serves the reference entities behind the generator.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	return page, size
}

// ListSubjects godoc
// @Summary List subjects
// @Tags Catalog
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param departmentId query string false "Filter by department"
// @Param semester query string false "Filter by semester"
// @Param yearLevel query int false "Filter by year level"
// @Param search query string false "Search code or name"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	var filter models.SubjectFilter
	filter.CourseID = c.Query("courseId")
	filter.DepartmentID = c.Query("departmentId")
	filter.Semester = c.Query("semester")
	if yearLevel, err := strconv.Atoi(c.Query("yearLevel")); err == nil {
		filter.YearLevel = yearLevel
	}
	filter.Search = c.Query("search")
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	subjects, pagination, err := h.service.ListSubjects(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, pagination)
}

// GetSubject godoc
// @Summary Get subject
// @Tags Catalog
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *CatalogHandler) GetSubject(c *gin.Context) {
	subject, err := h.service.GetSubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// ListFaculty godoc
// @Summary List faculty
// @Tags Catalog
// @Produce json
// @Param departmentId query string false "Filter by department"
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *CatalogHandler) ListFaculty(c *gin.Context) {
	var filter models.FacultyFilter
	filter.DepartmentID = c.Query("departmentId")
	if raw := c.Query("active"); raw != "" {
		active := strings.EqualFold(raw, "true")
		filter.Active = &active
	}
	filter.Search = c.Query("search")
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	faculty, pagination, err := h.service.ListFaculty(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, pagination)
}

// GetFaculty godoc
// @Summary Get faculty member
// @Tags Catalog
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *CatalogHandler) GetFaculty(c *gin.Context) {
	faculty, err := h.service.GetFaculty(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// ListClassrooms godoc
// @Summary List classrooms
// @Tags Catalog
// @Produce json
// @Param building query string false "Filter by building"
// @Param type query string false "Filter by room type"
// @Param status query string false "Filter by status"
// @Param minCapacity query int false "Minimum capacity"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *CatalogHandler) ListClassrooms(c *gin.Context) {
	var filter models.ClassroomFilter
	filter.Building = c.Query("building")
	filter.Type = c.Query("type")
	filter.Status = c.Query("status")
	if minCapacity, err := strconv.Atoi(c.Query("minCapacity")); err == nil {
		filter.MinCapacity = minCapacity
	}
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	classrooms, pagination, err := h.service.ListClassrooms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms, pagination)
}

// GetClassroom godoc
// @Summary Get classroom
// @Tags Catalog
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *CatalogHandler) GetClassroom(c *gin.Context) {
	classroom, err := h.service.GetClassroom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classroom, nil)
}

// ListDepartments godoc
// @Summary List departments
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// ListCourses godoc
// @Summary List courses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.service.ListCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
