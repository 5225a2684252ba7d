package dto

// GenerationConstraints overrides the institutional defaults for one run.
// Zero values fall back to per-record or configured limits.
type GenerationConstraints struct {
	MaxHoursPerWeek    int      `json:"maxHoursPerWeek" validate:"omitempty,min=1,max=60"`
	MinHoursPerWeek    int      `json:"minHoursPerWeek" validate:"omitempty,min=1,max=60"`
	MaxPreparations    int      `json:"maxPreparations" validate:"omitempty,min=1,max=10"`
	MinimumCapacity    int      `json:"minimumCapacity" validate:"omitempty,min=1"`
	RequiredFacilities []string `json:"requiredFacilities"`
	AllowedDays        []string `json:"allowedDays" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
}

// GenerateTimetableRequest scopes and parameterises one generation run.
// SubjectIDs take precedence over CourseIDs, which take precedence over
// DepartmentIDs; with none set every subject of the term is in scope.
type GenerateTimetableRequest struct {
	Semester          string                 `json:"semester" validate:"required"`
	AcademicYear      string                 `json:"academicYear" validate:"required"`
	DepartmentIDs     []string               `json:"departmentIds"`
	CourseIDs         []string               `json:"courseIds"`
	SubjectIDs        []string               `json:"subjectIds"`
	Constraints       *GenerationConstraints `json:"constraints" validate:"omitempty"`
	OverwriteExisting bool                   `json:"overwriteExisting"`
}

// FailedSubject reports one subject the run could not place.
type FailedSubject struct {
	SubjectID   string `json:"subjectId"`
	SubjectCode string `json:"subjectCode"`
	SubjectName string `json:"subjectName"`
	Reason      string `json:"reason"`
}

// GenerationStatistics aggregates run outcomes for reporting.
type GenerationStatistics struct {
	TotalSubjects   int                `json:"totalSubjects"`
	TotalGenerated  int                `json:"totalGenerated"`
	TotalFailed     int                `json:"totalFailed"`
	ByDepartment    map[string]int     `json:"byDepartment"`
	ByFaculty       map[string]int     `json:"byFaculty"`
	ByClassroom     map[string]int     `json:"byClassroom"`
	RoomUtilization map[string]float64 `json:"roomUtilization"`
}

// GenerationResult is the orchestrator's structured outcome. Partial success
// is the normal case: placed subjects commit, failed ones are listed.
type GenerationResult struct {
	Success        bool                 `json:"success"`
	Message        string               `json:"message"`
	Generated      int                  `json:"generated"`
	FailedSubjects []FailedSubject      `json:"failedSubjects"`
	Statistics     GenerationStatistics `json:"statistics"`
}
