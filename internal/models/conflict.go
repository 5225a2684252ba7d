package models

// Conflict types.
const (
	ConflictFaculty   = "faculty"
	ConflictClassroom = "classroom"
	ConflictWorkload  = "workload"
	ConflictCapacity  = "capacity"
)

// Conflict severities. Errors block an assignment; warnings do not.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Conflict describes one violated constraint found for a proposed or existing
// assignment.
type Conflict struct {
	Type        string                 `json:"type"`
	Severity    string                 `json:"severity"`
	Message     string                 `json:"message"`
	ScheduleIDs []string               `json:"schedule_ids,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Blocking reports whether the conflict carries error severity.
func (c Conflict) Blocking() bool {
	return c.Severity == SeverityError
}

// HasBlocking reports whether any conflict in the list blocks the assignment.
func HasBlocking(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Blocking() {
			return true
		}
	}
	return false
}

// ConflictError is returned when a direct create/update collides with the
// committed schedule set.
type ConflictError struct {
	Message   string     `json:"message"`
	Conflicts []Conflict `json:"conflicts"`
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
