package timetable

import (
	"context"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// Failure reasons reported when a subject cannot be placed.
const (
	ReasonNoFaculty   = "no suitable faculty available"
	ReasonNoClassroom = "no suitable classroom available"
	ReasonNoSlot      = "no conflict-free time slot found"
)

// Assignment is one feasible (faculty, classroom, time slot) triple. Warnings
// carried by the accepted placement are advisory and do not block.
type Assignment struct {
	Faculty   models.Faculty
	Classroom models.Classroom
	Slot      models.TimeSlot
	Warnings  []models.Conflict
}

// SearchRequest is the input to one subject placement.
type SearchRequest struct {
	Subject       models.Subject
	Semester      string
	AcademicYear  string
	FacultyPool   []models.Faculty
	ClassroomPool []models.Classroom
	Ledger        *LoadLedger
	Constraints   Constraints
}

// SearchResult is the outcome: either an Assignment, or a failure reason.
// Exhaustion is an expected, common outcome, not an error.
type SearchResult struct {
	Assignment    *Assignment
	FailureReason string
}

// AssignmentStrategy finds one feasible triple per subject. The greedy
// first-fit below is the baseline; an optimising solver can be substituted
// without touching the matchers or the detector.
type AssignmentStrategy interface {
	Find(ctx context.Context, req SearchRequest) (SearchResult, error)
}

// FirstFitSearch exhausts faculty x classroom x slot in that nesting order and
// accepts the first candidate with no blocking conflicts. Faculty outermost
// favours fair-share distribution; classroom next favours tight room fit.
type FirstFitSearch struct {
	facultyMatcher   *FacultyMatcher
	classroomMatcher *ClassroomMatcher
	slots            *SlotGenerator
	detector         *Detector
}

// NewFirstFitSearch wires the baseline strategy.
func NewFirstFitSearch(facultyMatcher *FacultyMatcher, classroomMatcher *ClassroomMatcher, slots *SlotGenerator, detector *Detector) *FirstFitSearch {
	return &FirstFitSearch{
		facultyMatcher:   facultyMatcher,
		classroomMatcher: classroomMatcher,
		slots:            slots,
		detector:         detector,
	}
}

// Find implements AssignmentStrategy.
func (s *FirstFitSearch) Find(ctx context.Context, req SearchRequest) (SearchResult, error) {
	faculty := s.facultyMatcher.Rank(req.Subject, req.FacultyPool, req.Ledger, req.Constraints)
	if len(faculty) == 0 {
		return SearchResult{FailureReason: ReasonNoFaculty}, nil
	}

	rooms := s.classroomMatcher.Rank(req.Subject, req.ClassroomPool, req.Constraints)
	if len(rooms) == 0 {
		return SearchResult{FailureReason: ReasonNoClassroom}, nil
	}

	slots := s.slots.Generate(req.Subject.SessionType())
	if len(req.Constraints.AllowedDays) > 0 {
		filtered := slots[:0]
		for _, slot := range slots {
			if req.Constraints.allowsDay(slot.DayOfWeek) {
				filtered = append(filtered, slot)
			}
		}
		slots = filtered
	}
	if len(slots) == 0 {
		return SearchResult{FailureReason: ReasonNoSlot}, nil
	}

	subject := req.Subject
	for i := range faculty {
		if err := ctx.Err(); err != nil {
			return SearchResult{}, err
		}
		for j := range rooms {
			for _, slot := range slots {
				proposal := Proposal{
					Subject:      &subject,
					Faculty:      &faculty[i],
					Classroom:    &rooms[j],
					Slot:         slot,
					Semester:     req.Semester,
					AcademicYear: req.AcademicYear,
				}
				conflicts, err := s.detector.Detect(ctx, proposal)
				if err != nil {
					return SearchResult{}, err
				}
				if models.HasBlocking(conflicts) {
					continue
				}
				return SearchResult{Assignment: &Assignment{
					Faculty:   faculty[i],
					Classroom: rooms[j],
					Slot:      slot,
					Warnings:  conflicts,
				}}, nil
			}
		}
	}

	return SearchResult{FailureReason: ReasonNoSlot}, nil
}
