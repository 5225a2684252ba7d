package timetable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

func searchFixture(schedules []models.Schedule, ledger *LoadLedger) *FirstFitSearch {
	detector := NewDetector(scheduleSourceStub{items: schedules}, LedgerLoadSource{Ledger: ledger}, 40)
	return NewFirstFitSearch(
		NewFacultyMatcher(),
		NewClassroomMatcher(),
		NewSlotGenerator(90*time.Minute, "19:00"),
		detector,
	)
}

func TestFirstFitPlacesSimpleSubject(t *testing.T) {
	faculty := facultyFixture("f1", "dept-cs", 0)
	room := classroomFixture("r1", 40, models.RoomLecture)
	ledger := seededLedger(faculty)

	search := searchFixture(nil, ledger)
	result, err := search.Find(context.Background(), SearchRequest{
		Subject:       models.Subject{ID: "s1", Code: "CS101", LectureUnits: 3},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{faculty},
		ClassroomPool: []models.Classroom{room},
		Ledger:        ledger,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Assignment)
	assert.Equal(t, "f1", result.Assignment.Faculty.ID)
	assert.Equal(t, "r1", result.Assignment.Classroom.ID)
	assert.Equal(t, models.TimeSlot{DayOfWeek: models.DayMonday, StartTime: "07:00", EndTime: "08:30"}, result.Assignment.Slot)
	assert.Empty(t, result.FailureReason)
}

func TestFirstFitSkipsOccupiedSlot(t *testing.T) {
	faculty := facultyFixture("f1", "dept-cs", 0)
	room := classroomFixture("r1", 40, models.RoomLecture)
	ledger := seededLedger(faculty)

	busy := models.Schedule{
		ID: "sch-1", FacultyID: "f1", ClassroomID: "r1",
		Semester: "1st", AcademicYear: "2025-2026",
		DayOfWeek: models.DayMonday, StartTime: "07:00", EndTime: "08:30",
		Status: models.ScheduleDraft,
	}

	search := searchFixture([]models.Schedule{busy}, ledger)
	result, err := search.Find(context.Background(), SearchRequest{
		Subject:       models.Subject{ID: "s1", LectureUnits: 3},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{faculty},
		ClassroomPool: []models.Classroom{room},
		Ledger:        ledger,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Assignment)
	assert.Equal(t, "07:30", result.Assignment.Slot.StartTime)
}

func TestFirstFitNoFacultyReason(t *testing.T) {
	exhausted := facultyFixture("f1", "dept-cs", 25)
	room := classroomFixture("r1", 40, models.RoomLecture)
	ledger := seededLedger(exhausted)

	search := searchFixture(nil, ledger)
	result, err := search.Find(context.Background(), SearchRequest{
		Subject:       models.Subject{ID: "s1", LectureUnits: 3},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{exhausted},
		ClassroomPool: []models.Classroom{room},
		Ledger:        ledger,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Assignment)
	assert.Equal(t, ReasonNoFaculty, result.FailureReason)
}

func TestFirstFitNoClassroomForLaboratorySubject(t *testing.T) {
	faculty := facultyFixture("f1", "dept-cs", 0)
	lectureOnly := classroomFixture("r1", 40, models.RoomLecture)
	ledger := seededLedger(faculty)

	search := searchFixture(nil, ledger)
	result, err := search.Find(context.Background(), SearchRequest{
		Subject:       models.Subject{ID: "s1", LabUnits: 3, IsLaboratory: true},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{faculty},
		ClassroomPool: []models.Classroom{lectureOnly},
		Ledger:        ledger,
	})
	require.NoError(t, err)
	assert.Nil(t, result.Assignment)
	assert.Equal(t, ReasonNoClassroom, result.FailureReason)
}

func TestFirstFitCarriesAdvisoryWarnings(t *testing.T) {
	faculty := facultyFixture("f1", "dept-cs", 0)
	snug := classroomFixture("r1", 30, models.RoomLecture) // below 0.8*40
	ledger := seededLedger(faculty)

	search := searchFixture(nil, ledger)
	result, err := search.Find(context.Background(), SearchRequest{
		Subject:       models.Subject{ID: "s1", LectureUnits: 3},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{faculty},
		ClassroomPool: []models.Classroom{snug},
		Ledger:        ledger,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Assignment)
	require.Len(t, result.Assignment.Warnings, 1)
	assert.Equal(t, models.ConflictCapacity, result.Assignment.Warnings[0].Type)
}

func TestFirstFitHonoursAllowedDays(t *testing.T) {
	faculty := facultyFixture("f1", "dept-cs", 0)
	room := classroomFixture("r1", 40, models.RoomLecture)
	ledger := seededLedger(faculty)

	search := searchFixture(nil, ledger)
	result, err := search.Find(context.Background(), SearchRequest{
		Subject:       models.Subject{ID: "s1", LectureUnits: 3},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{faculty},
		ClassroomPool: []models.Classroom{room},
		Ledger:        ledger,
		Constraints:   Constraints{AllowedDays: []string{models.DayFriday}},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Assignment)
	assert.Equal(t, models.DayFriday, result.Assignment.Slot.DayOfWeek)
}

func TestFirstFitLaboratorySlotsOnLabDays(t *testing.T) {
	faculty := facultyFixture("f1", "dept-cs", 0)
	lab := classroomFixture("r1", 40, models.RoomComputerLab)
	ledger := seededLedger(faculty)

	search := searchFixture(nil, ledger)
	result, err := search.Find(context.Background(), SearchRequest{
		Subject:       models.Subject{ID: "s1", LabUnits: 2, IsLaboratory: true},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{faculty},
		ClassroomPool: []models.Classroom{lab},
		Ledger:        ledger,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Assignment)
	assert.Contains(t, []string{models.DayTuesday, models.DayThursday}, result.Assignment.Slot.DayOfWeek)
}

func TestFirstFitCancellation(t *testing.T) {
	faculty := facultyFixture("f1", "dept-cs", 0)
	room := classroomFixture("r1", 40, models.RoomLecture)
	ledger := seededLedger(faculty)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	search := searchFixture(nil, ledger)
	_, err := search.Find(ctx, SearchRequest{
		Subject:       models.Subject{ID: "s1", LectureUnits: 3},
		Semester:      "1st",
		AcademicYear:  "2025-2026",
		FacultyPool:   []models.Faculty{faculty},
		ClassroomPool: []models.Classroom{room},
		Ledger:        ledger,
	})
	assert.ErrorIs(t, err, context.Canceled)
}
