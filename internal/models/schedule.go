package models

import "time"

// Schedule statuses.
const (
	ScheduleDraft     = "draft"
	SchedulePublished = "published"
	ScheduleArchived  = "archived"
)

// Session types carried on schedule rows for workload derivation.
const (
	SessionLecture    = "lecture"
	SessionLaboratory = "laboratory"
)

// Schedule represents a committed (subject, faculty, classroom, time slot)
// assignment for a term. Archived rows are excluded from conflict checks.
type Schedule struct {
	ID           string    `db:"id" json:"id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	FacultyID    string    `db:"faculty_id" json:"faculty_id"`
	ClassroomID  string    `db:"classroom_id" json:"classroom_id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Semester     string    `db:"semester" json:"semester"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	DayOfWeek    string    `db:"day_of_week" json:"day_of_week"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	SessionType  string    `db:"session_type" json:"session_type"`
	Status       string    `db:"status" json:"status"`
	Generated    bool      `db:"generated" json:"generated"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Slot returns the schedule's meeting occurrence as a TimeSlot value.
func (s Schedule) Slot() TimeSlot {
	return TimeSlot{DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime}
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	Semester     string
	AcademicYear string
	SubjectID    string
	FacultyID    string
	ClassroomID  string
	DepartmentID string
	DayOfWeek    string
	Status       string
	Generated    *bool
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// ScheduleDetail is a schedule row joined with display names, used by the
// timetable export.
type ScheduleDetail struct {
	ScheduleID  string `db:"schedule_id" json:"schedule_id"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	FacultyName string `db:"faculty_name" json:"faculty_name"`
	RoomNumber  string `db:"room_number" json:"room_number"`
	Building    string `db:"building" json:"building"`
	DayOfWeek   string `db:"day_of_week" json:"day_of_week"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	SessionType string `db:"session_type" json:"session_type"`
}

// FacultyScheduleLoad is a schedule row joined with its subject's unit counts,
// used by workload derivation.
type FacultyScheduleLoad struct {
	ScheduleID   string `db:"schedule_id" json:"schedule_id"`
	SubjectID    string `db:"subject_id" json:"subject_id"`
	SubjectCode  string `db:"subject_code" json:"subject_code"`
	SubjectName  string `db:"subject_name" json:"subject_name"`
	SessionType  string `db:"session_type" json:"session_type"`
	LectureUnits int    `db:"lecture_units" json:"lecture_units"`
	LabUnits     int    `db:"lab_units" json:"lab_units"`
}
