package dto

import "github.com/noah-isme/uni-timetable-api/internal/models"

// CreateScheduleRequest inserts one schedule entry directly, outside a
// generation run. The entry is validated against the committed set first.
type CreateScheduleRequest struct {
	SubjectID    string `json:"subjectId" validate:"required"`
	FacultyID    string `json:"facultyId" validate:"required"`
	ClassroomID  string `json:"classroomId" validate:"required"`
	Semester     string `json:"semester" validate:"required"`
	AcademicYear string `json:"academicYear" validate:"required"`
	DayOfWeek    string `json:"dayOfWeek" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
}

// UpdateScheduleRequest moves or reassigns an existing entry. Empty fields
// keep the stored value.
type UpdateScheduleRequest struct {
	FacultyID   string `json:"facultyId"`
	ClassroomID string `json:"classroomId"`
	DayOfWeek   string `json:"dayOfWeek" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// ScheduleQuery filters schedule listings.
type ScheduleQuery struct {
	Semester     string `form:"semester"`
	AcademicYear string `form:"academicYear"`
	SubjectID    string `form:"subjectId"`
	FacultyID    string `form:"facultyId"`
	ClassroomID  string `form:"classroomId"`
	DepartmentID string `form:"departmentId"`
	DayOfWeek    string `form:"dayOfWeek"`
	Status       string `form:"status"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
	SortBy       string `form:"sortBy"`
	SortOrder    string `form:"sortOrder"`
}

// ConflictCheckResponse wraps conflict detection output.
type ConflictCheckResponse struct {
	HasBlocking bool              `json:"hasBlocking"`
	Conflicts   []models.Conflict `json:"conflicts"`
}
