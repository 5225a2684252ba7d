package models

import "time"

// Faculty employment types.
const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentVisiting = "visiting"
)

// Default load bounds applied when a record carries none.
const (
	DefaultMinLoad         = 18
	DefaultMaxLoad         = 26
	DefaultMaxPreparations = 4
)

// Faculty represents an instructor record. CurrentLoad and
// CurrentPreparations are the mutable scheduling counters committed by the
// generation orchestrator; everything else is reference data.
type Faculty struct {
	ID                  string    `db:"id" json:"id"`
	FullName            string    `db:"full_name" json:"full_name"`
	DepartmentID        string    `db:"department_id" json:"department_id"`
	EmploymentType      string    `db:"employment_type" json:"employment_type"`
	MinLoad             int       `db:"min_load" json:"min_load"`
	MaxLoad             int       `db:"max_load" json:"max_load"`
	CurrentLoad         int       `db:"current_load" json:"current_load"`
	MaxPreparations     int       `db:"max_preparations" json:"max_preparations"`
	CurrentPreparations int       `db:"current_preparations" json:"current_preparations"`
	Active              bool      `db:"active" json:"active"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// EffectiveMaxLoad returns the configured unit ceiling, falling back to the
// institutional default when unset.
func (f Faculty) EffectiveMaxLoad() int {
	if f.MaxLoad > 0 {
		return f.MaxLoad
	}
	return DefaultMaxLoad
}

// EffectiveMinLoad returns the configured unit floor, falling back to the
// institutional default when unset.
func (f Faculty) EffectiveMinLoad() int {
	if f.MinLoad > 0 {
		return f.MinLoad
	}
	return DefaultMinLoad
}

// EffectiveMaxPreparations returns the distinct-subject ceiling.
func (f Faculty) EffectiveMaxPreparations() int {
	if f.MaxPreparations > 0 {
		return f.MaxPreparations
	}
	return DefaultMaxPreparations
}

// FacultyFilter captures filtering options for listing faculty.
type FacultyFilter struct {
	DepartmentID string
	Active       *bool
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
