package models

import (
	"time"

	"github.com/lib/pq"
)

// Subject represents one teachable offering within a degree program.
type Subject struct {
	ID            string         `db:"id" json:"id"`
	Code          string         `db:"code" json:"code"`
	Name          string         `db:"name" json:"name"`
	LectureUnits  int            `db:"lecture_units" json:"lecture_units"`
	LabUnits      int            `db:"lab_units" json:"lab_units"`
	CourseID      string         `db:"course_id" json:"course_id"`
	DepartmentID  *string        `db:"department_id" json:"department_id,omitempty"`
	YearLevel     int            `db:"year_level" json:"year_level"`
	Semester      string         `db:"semester" json:"semester"`
	IsLaboratory  bool           `db:"is_laboratory" json:"is_laboratory"`
	Prerequisites pq.StringArray `db:"prerequisites" json:"prerequisites"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// TotalUnits is the combined lecture and laboratory credit count.
func (s Subject) TotalUnits() int {
	return s.LectureUnits + s.LabUnits
}

// SessionType returns the schedule-level session tag for this subject.
func (s Subject) SessionType() string {
	if s.IsLaboratory {
		return SessionLaboratory
	}
	return SessionLecture
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	CourseID     string
	DepartmentID string
	Semester     string
	YearLevel    int
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// Course represents a degree program grouping subjects.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	DepartmentID *string   `db:"department_id" json:"department_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
