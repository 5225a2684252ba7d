package timetable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

type scheduleSourceStub struct {
	items []models.Schedule
}

func (s scheduleSourceStub) ListForTermDay(_ context.Context, semester, academicYear, day string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, item := range s.items {
		if item.Semester == semester && item.AcademicYear == academicYear && item.DayOfWeek == day && item.Status != models.ScheduleArchived {
			out = append(out, item)
		}
	}
	return out, nil
}

type loadSourceStub struct {
	loads map[string]CommittedLoad
}

func (s loadSourceStub) CommittedLoad(_ context.Context, facultyID, _, _, _ string) (CommittedLoad, error) {
	return s.loads[facultyID], nil
}

func detectorFixture(schedules []models.Schedule, loads map[string]CommittedLoad) *Detector {
	if loads == nil {
		loads = map[string]CommittedLoad{}
	}
	return NewDetector(scheduleSourceStub{items: schedules}, loadSourceStub{loads: loads}, 40)
}

func proposalFixture() Proposal {
	dept := "dept-cs"
	return Proposal{
		Subject: &models.Subject{
			ID: "subj-1", Code: "CS101", Name: "Intro to Computing",
			LectureUnits: 3, DepartmentID: &dept,
		},
		Faculty: &models.Faculty{
			ID: "fac-1", FullName: "A. Reyes", DepartmentID: "dept-cs",
			MaxLoad: 26, MaxPreparations: 4, Active: true,
		},
		Classroom:    &models.Classroom{ID: "room-1", RoomNumber: "201", Capacity: 40, Type: models.RoomLecture, Status: models.RoomAvailable},
		Slot:         models.TimeSlot{DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30"},
		Semester:     "1st",
		AcademicYear: "2025-2026",
	}
}

func existingSchedule(id, facultyID, classroomID, start, end string) models.Schedule {
	return models.Schedule{
		ID: id, SubjectID: "subj-x", FacultyID: facultyID, ClassroomID: classroomID,
		Semester: "1st", AcademicYear: "2025-2026",
		DayOfWeek: models.DayMonday, StartTime: start, EndTime: end,
		SessionType: models.SessionLecture, Status: models.ScheduleDraft,
	}
}

func TestDetectFacultyOverlap(t *testing.T) {
	det := detectorFixture([]models.Schedule{
		existingSchedule("sch-1", "fac-1", "room-9", "09:30", "11:00"),
	}, nil)

	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictFaculty, conflicts[0].Type)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
	assert.Equal(t, []string{"sch-1"}, conflicts[0].ScheduleIDs)
}

func TestDetectClassroomOverlap(t *testing.T) {
	det := detectorFixture([]models.Schedule{
		existingSchedule("sch-2", "fac-9", "room-1", "08:00", "09:30"),
	}, nil)

	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictClassroom, conflicts[0].Type)
}

func TestDetectBothDimensionsFireOnOneCandidate(t *testing.T) {
	det := detectorFixture([]models.Schedule{
		existingSchedule("sch-3", "fac-1", "room-1", "09:00", "10:30"),
	}, nil)

	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, models.ConflictFaculty, conflicts[0].Type)
	assert.Equal(t, models.ConflictClassroom, conflicts[1].Type)
}

func TestDetectSkipsNonOverlappingAndOtherDays(t *testing.T) {
	touching := existingSchedule("sch-4", "fac-1", "room-1", "10:30", "12:00")
	otherDay := existingSchedule("sch-5", "fac-1", "room-1", "09:00", "10:30")
	otherDay.DayOfWeek = models.DayWednesday

	det := detectorFixture([]models.Schedule{touching, otherDay}, nil)

	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectExcludesOwnRecordOnUpdate(t *testing.T) {
	det := detectorFixture([]models.Schedule{
		existingSchedule("sch-6", "fac-1", "room-1", "09:00", "10:30"),
	}, nil)

	p := proposalFixture()
	p.ScheduleID = "sch-6"
	conflicts, err := det.Detect(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectIgnoresArchivedSchedules(t *testing.T) {
	archived := existingSchedule("sch-7", "fac-1", "room-1", "09:00", "10:30")
	archived.Status = models.ScheduleArchived

	det := detectorFixture([]models.Schedule{archived}, nil)

	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectWorkloadError(t *testing.T) {
	det := detectorFixture(nil, map[string]CommittedLoad{
		"fac-1": {Units: 23, Preparations: 2, Subjects: []string{"subj-a", "subj-b"}},
	})

	// 23 committed + 3 proposed = 26 >= max 26.
	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictWorkload, conflicts[0].Type)
	assert.Equal(t, models.SeverityError, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Message, "maximum load")
}

func TestDetectPreparationWarning(t *testing.T) {
	det := detectorFixture(nil, map[string]CommittedLoad{
		"fac-1": {Units: 9, Preparations: 3, Subjects: []string{"subj-a", "subj-b", "subj-c"}},
	})

	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictWorkload, conflicts[0].Type)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)
}

func TestDetectRepeatSubjectAddsNoPreparation(t *testing.T) {
	det := detectorFixture(nil, map[string]CommittedLoad{
		"fac-1": {Units: 9, Preparations: 3, Subjects: []string{"subj-1", "subj-b", "subj-c"}},
	})

	conflicts, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectCapacityWarningIsAdvisory(t *testing.T) {
	det := detectorFixture(nil, nil)

	p := proposalFixture()
	p.Classroom = &models.Classroom{ID: "room-2", RoomNumber: "105", Capacity: 25, Type: models.RoomLecture, Status: models.RoomAvailable}
	conflicts, err := det.Detect(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictCapacity, conflicts[0].Type)
	assert.Equal(t, models.SeverityWarning, conflicts[0].Severity)
	assert.False(t, models.HasBlocking(conflicts))
}

func TestDetectIsIdempotent(t *testing.T) {
	det := detectorFixture([]models.Schedule{
		existingSchedule("sch-8", "fac-1", "room-1", "09:00", "10:30"),
	}, map[string]CommittedLoad{
		"fac-1": {Units: 23, Preparations: 2, Subjects: []string{"subj-a", "subj-b"}},
	})

	first, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	second, err := det.Detect(context.Background(), proposalFixture())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
