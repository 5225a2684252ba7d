package models

// Load classification values.
const (
	LoadUnderloaded = "underloaded"
	LoadOptimal     = "optimal"
	LoadOverloaded  = "overloaded"
)

// WorkloadEntry is one scheduled subject's contribution to a faculty load.
type WorkloadEntry struct {
	SubjectID    string  `json:"subject_id"`
	SubjectCode  string  `json:"subject_code"`
	SubjectName  string  `json:"subject_name"`
	SessionType  string  `json:"session_type"`
	Units        int     `json:"units"`
	ContactHours float64 `json:"contact_hours"`
}

// DepartmentWorkload aggregates the load reports of one department's active
// faculty for a term.
type DepartmentWorkload struct {
	DepartmentID string           `json:"department_id"`
	Semester     string           `json:"semester"`
	AcademicYear string           `json:"academic_year"`
	Underloaded  int              `json:"underloaded"`
	Optimal      int              `json:"optimal"`
	Overloaded   int              `json:"overloaded"`
	Reports      []WorkloadReport `json:"reports"`
}

// WorkloadReport summarises a faculty member's teaching load for one term.
type WorkloadReport struct {
	FacultyID    string          `json:"faculty_id"`
	FacultyName  string          `json:"faculty_name"`
	Semester     string          `json:"semester"`
	AcademicYear string          `json:"academic_year"`
	LectureHours float64         `json:"lecture_hours"`
	LabHours     float64         `json:"lab_hours"`
	TotalHours   float64         `json:"total_hours"`
	TotalUnits   int             `json:"total_units"`
	Preparations int             `json:"preparations"`
	Status       string          `json:"status"`
	Entries      []WorkloadEntry `json:"entries"`
}
