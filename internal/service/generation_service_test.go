package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-timetable-api/internal/dto"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/timetable"
	"github.com/noah-isme/uni-timetable-api/pkg/database"
	appErrors "github.com/noah-isme/uni-timetable-api/pkg/errors"
)

type mockSubjectSource struct {
	subjects []models.Subject
}

func (m *mockSubjectSource) ListForGeneration(_ context.Context, _ string, _, _, _ []string) ([]models.Subject, error) {
	return m.subjects, nil
}

type loadDelta struct {
	facultyID string
	units     int
	preps     int
}

type mockFacultyStore struct {
	pool       []models.Faculty
	increments []loadDelta
	released   bool
}

func (m *mockFacultyStore) ListActive(_ context.Context) ([]models.Faculty, error) {
	return m.pool, nil
}

func (m *mockFacultyStore) IncrementLoad(_ context.Context, facultyID string, unitDelta, prepDelta int) error {
	m.increments = append(m.increments, loadDelta{facultyID: facultyID, units: unitDelta, preps: prepDelta})
	return nil
}

func (m *mockFacultyStore) ReleaseGeneratedLoad(_ context.Context, _, _ string) error {
	m.released = true
	return nil
}

type mockClassroomSource struct {
	rooms []models.Classroom
}

func (m *mockClassroomSource) ListAvailable(_ context.Context) ([]models.Classroom, error) {
	return m.rooms, nil
}

type mockCourseSource struct {
	items map[string]*models.Course
}

func (m *mockCourseSource) FindByID(_ context.Context, id string) (*models.Course, error) {
	if course, ok := m.items[id]; ok {
		cp := *course
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockScheduleStore struct {
	existing      []models.Schedule
	created       []models.Schedule
	archivedTerms []string
	baseline      map[string][]string
}

func (m *mockScheduleStore) ListForTermDay(_ context.Context, semester, academicYear, day string) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range append(m.existing, m.created...) {
		if s.Semester == semester && s.AcademicYear == academicYear && s.DayOfWeek == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockScheduleStore) ListFacultySubjects(_ context.Context, _, _ string) (map[string][]string, error) {
	return m.baseline, nil
}

func (m *mockScheduleStore) Create(_ context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = "gen-" + schedule.SubjectID
	}
	m.created = append(m.created, *schedule)
	return nil
}

func (m *mockScheduleStore) ArchiveGenerated(_ context.Context, semester, academicYear string) (int64, error) {
	m.archivedTerms = append(m.archivedTerms, semester+"/"+academicYear)
	return 3, nil
}

type mockTermLocker struct {
	busy     bool
	acquired int
}

func (m *mockTermLocker) Acquire(_ context.Context, _, _ string) (*database.TermLock, error) {
	m.acquired++
	if m.busy {
		return nil, nil
	}
	return &database.TermLock{}, nil
}

func generationFixture(subjects []models.Subject, faculty []models.Faculty, rooms []models.Classroom) (*GenerationService, *mockScheduleStore, *mockFacultyStore, *mockTermLocker) {
	schedules := &mockScheduleStore{}
	facultyStore := &mockFacultyStore{pool: faculty}
	locker := &mockTermLocker{}
	dept := "dept-cs"
	courses := &mockCourseSource{items: map[string]*models.Course{
		"course-1": {ID: "course-1", Code: "BSCS", Name: "Computer Science", DepartmentID: &dept},
	}}
	svc := NewGenerationService(
		&mockSubjectSource{subjects: subjects},
		facultyStore,
		&mockClassroomSource{rooms: rooms},
		courses,
		schedules,
		locker,
		nil,
		nil,
		zap.NewNop(),
		GenerationConfig{SessionDuration: 90 * time.Minute, ClosingTime: "19:00", TypicalClassSize: 40, WeeklyRoomSlots: 40},
	)
	return svc, schedules, facultyStore, locker
}

func genSubject(id, code string, units int) models.Subject {
	dept := "dept-cs"
	return models.Subject{ID: id, Code: code, Name: code, LectureUnits: units, CourseID: "course-1", DepartmentID: &dept, Semester: "1st"}
}

func genFaculty(id string) models.Faculty {
	return models.Faculty{ID: id, FullName: "Faculty " + id, DepartmentID: "dept-cs", MaxLoad: 26, MaxPreparations: 4, Active: true}
}

func genRoom(id string, capacity int) models.Classroom {
	return models.Classroom{ID: id, RoomNumber: id, Building: "Main", Capacity: capacity, Type: models.RoomLecture, Status: models.RoomAvailable}
}

func TestGeneratePlacesSubjectsWithoutDoubleBooking(t *testing.T) {
	svc, schedules, facultyStore, _ := generationFixture(
		[]models.Subject{genSubject("s1", "CS101", 3), genSubject("s2", "CS102", 3)},
		[]models.Faculty{genFaculty("f1")},
		[]models.Classroom{genRoom("r1", 40)},
	)

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Semester: "1st", AcademicYear: "2025-2026"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Generated)
	require.Len(t, schedules.created, 2)

	// Same faculty and room for both subjects, so the slots must differ.
	first, second := schedules.created[0], schedules.created[1]
	assert.False(t, first.Slot().Overlaps(second.Slot()))
	assert.True(t, first.Generated)
	assert.Equal(t, models.ScheduleDraft, first.Status)
	assert.Equal(t, "dept-cs", first.DepartmentID)

	require.Len(t, facultyStore.increments, 2)
	assert.Equal(t, loadDelta{facultyID: "f1", units: 3, preps: 1}, facultyStore.increments[0])
	assert.Equal(t, loadDelta{facultyID: "f1", units: 3, preps: 1}, facultyStore.increments[1])

	assert.Equal(t, 2, result.Statistics.ByFaculty["f1"])
	assert.InDelta(t, 2.0/40.0, result.Statistics.RoomUtilization["r1"], 0.0001)
}

func TestGenerateTermLockBusy(t *testing.T) {
	svc, _, _, locker := generationFixture(nil, nil, nil)
	locker.busy = true

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Semester: "1st", AcademicYear: "2025-2026"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTermLocked.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, locker.acquired)
}

func TestGenerateCollectsPlacementFailures(t *testing.T) {
	lab := genSubject("s1", "CS103L", 0)
	lab.LabUnits = 2
	lab.IsLaboratory = true

	svc, schedules, _, _ := generationFixture(
		[]models.Subject{lab},
		[]models.Faculty{genFaculty("f1")},
		[]models.Classroom{genRoom("r1", 40)}, // lecture room only
	)

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Semester: "1st", AcademicYear: "2025-2026"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Generated)
	require.Len(t, result.FailedSubjects, 1)
	assert.Equal(t, "CS103L", result.FailedSubjects[0].SubjectCode)
	assert.Equal(t, timetable.ReasonNoClassroom, result.FailedSubjects[0].Reason)
	assert.Empty(t, schedules.created)
}

func TestGenerateRepeatSubjectIsNotANewPreparation(t *testing.T) {
	f := genFaculty("f1")
	f.CurrentLoad = 3
	f.CurrentPreparations = 1

	svc, schedules, facultyStore, _ := generationFixture(
		[]models.Subject{genSubject("s1", "CS101", 3)},
		[]models.Faculty{f},
		[]models.Classroom{genRoom("r1", 40)},
	)
	// f1 already teaches s1 from a persisted row.
	schedules.baseline = map[string][]string{"f1": {"s1"}}

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Semester: "1st", AcademicYear: "2025-2026"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, facultyStore.increments, 1)
	assert.Equal(t, loadDelta{facultyID: "f1", units: 3, preps: 0}, facultyStore.increments[0])
}

func TestGenerateOverwriteArchivesPreviousRun(t *testing.T) {
	svc, schedules, facultyStore, _ := generationFixture(
		[]models.Subject{genSubject("s1", "CS101", 3)},
		[]models.Faculty{genFaculty("f1")},
		[]models.Classroom{genRoom("r1", 40)},
	)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{
		Semester: "1st", AcademicYear: "2025-2026", OverwriteExisting: true,
	})
	require.NoError(t, err)
	assert.True(t, facultyStore.released)
	assert.Equal(t, []string{"1st/2025-2026"}, schedules.archivedTerms)
}

func TestGenerateFailsSubjectWithoutDepartment(t *testing.T) {
	orphan := models.Subject{ID: "s1", Code: "GE001", Name: "Orphan", LectureUnits: 3, Semester: "1st"}

	svc, _, _, _ := generationFixture(
		[]models.Subject{orphan},
		[]models.Faculty{genFaculty("f1")},
		[]models.Classroom{genRoom("r1", 40)},
	)

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Semester: "1st", AcademicYear: "2025-2026"})
	require.NoError(t, err)
	require.Len(t, result.FailedSubjects, 1)
	assert.Equal(t, "subject has no department or course", result.FailedSubjects[0].Reason)
}

func TestGenerateResolvesDepartmentThroughCourse(t *testing.T) {
	viaCourse := models.Subject{ID: "s1", Code: "CS110", Name: "Via Course", LectureUnits: 3, CourseID: "course-1", Semester: "1st"}

	svc, schedules, _, _ := generationFixture(
		[]models.Subject{viaCourse},
		[]models.Faculty{genFaculty("f1")},
		[]models.Classroom{genRoom("r1", 40)},
	)

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Semester: "1st", AcademicYear: "2025-2026"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, schedules.created, 1)
	assert.Equal(t, "dept-cs", schedules.created[0].DepartmentID)
}

func TestGenerateValidatesPayload(t *testing.T) {
	svc, _, _, locker := generationFixture(nil, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Semester: "1st"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, locker.acquired, "invalid payloads must not take the term lock")
}

func TestGenerateCancelledContextAborts(t *testing.T) {
	svc, _, _, _ := generationFixture(
		[]models.Subject{genSubject("s1", "CS101", 3)},
		[]models.Faculty{genFaculty("f1")},
		[]models.Classroom{genRoom("r1", 40)},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, dto.GenerateTimetableRequest{Semester: "1st", AcademicYear: "2025-2026"})
	require.Error(t, err)
}
