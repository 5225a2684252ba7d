package dto

// ProposedAssignment is a schedule tuple submitted for conflict inspection or
// direct creation. ScheduleID is set when re-validating an existing record.
type ProposedAssignment struct {
	ScheduleID   string `json:"scheduleId"`
	SubjectID    string `json:"subjectId" validate:"required"`
	FacultyID    string `json:"facultyId" validate:"required"`
	ClassroomID  string `json:"classroomId" validate:"required"`
	Semester     string `json:"semester" validate:"required"`
	AcademicYear string `json:"academicYear" validate:"required"`
	DayOfWeek    string `json:"dayOfWeek" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
}
