package timetable

import (
	"context"
	"fmt"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// ScheduleSource yields committed, non-archived schedules for one term and day.
type ScheduleSource interface {
	ListForTermDay(ctx context.Context, semester, academicYear, day string) ([]models.Schedule, error)
}

// CommittedLoad is a faculty member's committed standing for one term,
// excluding the proposal under evaluation.
type CommittedLoad struct {
	Units        int
	Preparations int
	Subjects     []string
}

// LoadSource yields a faculty member's committed load for one term.
type LoadSource interface {
	CommittedLoad(ctx context.Context, facultyID, semester, academicYear, excludeScheduleID string) (CommittedLoad, error)
}

// Proposal is a proposed (or existing, when ScheduleID is set) schedule tuple
// to be checked against the committed schedule set.
type Proposal struct {
	ScheduleID   string
	Subject      *models.Subject
	Faculty      *models.Faculty
	Classroom    *models.Classroom
	Slot         models.TimeSlot
	Semester     string
	AcademicYear string
}

// Detector reports every constraint violation for a proposal. It performs pure
// reads only; callers decide whether error-severity conflicts block.
type Detector struct {
	schedules        ScheduleSource
	loads            LoadSource
	typicalClassSize int
}

// NewDetector wires the detector. A non-positive class size falls back to the
// institutional default of 40.
func NewDetector(schedules ScheduleSource, loads LoadSource, typicalClassSize int) *Detector {
	if typicalClassSize <= 0 {
		typicalClassSize = 40
	}
	return &Detector{schedules: schedules, loads: loads, typicalClassSize: typicalClassSize}
}

// Detect runs the full check sequence: time overlaps against the committed set
// (faculty and classroom dimensions, both may fire on the same candidate),
// then workload, then room capacity. The returned order is discovery order and
// the result is stable for unchanged committed state.
func (d *Detector) Detect(ctx context.Context, p Proposal) ([]models.Conflict, error) {
	conflicts := make([]models.Conflict, 0, 2)

	candidates, err := d.schedules.ListForTermDay(ctx, p.Semester, p.AcademicYear, p.Slot.DayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("list schedules for conflict check: %w", err)
	}

	for _, cand := range candidates {
		if p.ScheduleID != "" && cand.ID == p.ScheduleID {
			continue
		}
		if cand.Status == models.ScheduleArchived {
			continue
		}
		if !p.Slot.Overlaps(cand.Slot()) {
			continue
		}
		if p.Faculty != nil && cand.FacultyID == p.Faculty.ID {
			conflicts = append(conflicts, models.Conflict{
				Type:        models.ConflictFaculty,
				Severity:    models.SeverityError,
				Message:     fmt.Sprintf("faculty %s is already scheduled at %s %s-%s", p.Faculty.FullName, cand.DayOfWeek, cand.StartTime, cand.EndTime),
				ScheduleIDs: []string{cand.ID},
				Details: map[string]interface{}{
					"faculty_id": p.Faculty.ID,
					"subject_id": cand.SubjectID,
				},
			})
		}
		if p.Classroom != nil && cand.ClassroomID == p.Classroom.ID {
			conflicts = append(conflicts, models.Conflict{
				Type:        models.ConflictClassroom,
				Severity:    models.SeverityError,
				Message:     fmt.Sprintf("classroom %s is already booked at %s %s-%s", p.Classroom.RoomNumber, cand.DayOfWeek, cand.StartTime, cand.EndTime),
				ScheduleIDs: []string{cand.ID},
				Details: map[string]interface{}{
					"classroom_id": p.Classroom.ID,
					"subject_id":   cand.SubjectID,
				},
			})
		}
	}

	if p.Faculty != nil && p.Subject != nil {
		load, err := d.loads.CommittedLoad(ctx, p.Faculty.ID, p.Semester, p.AcademicYear, p.ScheduleID)
		if err != nil {
			return nil, fmt.Errorf("load committed units: %w", err)
		}

		proposedUnits := p.Subject.TotalUnits()
		maxLoad := p.Faculty.EffectiveMaxLoad()
		if load.Units+proposedUnits >= maxLoad {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictWorkload,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("faculty %s reached maximum load (%d of %d units)", p.Faculty.FullName, load.Units+proposedUnits, maxLoad),
				Details: map[string]interface{}{
					"faculty_id":      p.Faculty.ID,
					"committed_units": load.Units,
					"proposed_units":  proposedUnits,
					"max_load":        maxLoad,
				},
			})
		} else {
			preparations := load.Preparations
			if !containsString(load.Subjects, p.Subject.ID) {
				preparations++
			}
			if preparations >= p.Faculty.EffectiveMaxPreparations() {
				conflicts = append(conflicts, models.Conflict{
					Type:     models.ConflictWorkload,
					Severity: models.SeverityWarning,
					Message:  fmt.Sprintf("faculty %s reaches %d distinct subject preparations", p.Faculty.FullName, preparations),
					Details: map[string]interface{}{
						"faculty_id":       p.Faculty.ID,
						"preparations":     preparations,
						"max_preparations": p.Faculty.EffectiveMaxPreparations(),
					},
				})
			}
		}
	}

	if p.Classroom != nil && p.Subject != nil {
		// Advisory only: a room below 80% of the typical class size is flagged
		// but never blocks placement.
		threshold := int(0.8 * float64(d.typicalClassSize))
		if p.Classroom.Capacity < threshold {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictCapacity,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("classroom %s (capacity %d) may be too small for a typical class of %d", p.Classroom.RoomNumber, p.Classroom.Capacity, d.typicalClassSize),
				Details: map[string]interface{}{
					"classroom_id": p.Classroom.ID,
					"capacity":     p.Classroom.Capacity,
					"typical_size": d.typicalClassSize,
				},
			})
		}
	}

	return conflicts, nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
