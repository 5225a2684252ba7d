package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

func facultyFixture(id, departmentID string, currentLoad int) models.Faculty {
	return models.Faculty{
		ID: id, FullName: "Faculty " + id, DepartmentID: departmentID,
		MaxLoad: 26, MaxPreparations: 4, CurrentLoad: currentLoad, Active: true,
	}
}

func seededLedger(pool ...models.Faculty) *LoadLedger {
	ledger := NewLoadLedger()
	for _, f := range pool {
		ledger.Seed(f, nil)
	}
	return ledger
}

func TestFacultyMatcherFiltersByDepartment(t *testing.T) {
	dept := "dept-cs"
	subject := models.Subject{ID: "s1", LectureUnits: 3, DepartmentID: &dept}
	pool := []models.Faculty{
		facultyFixture("f1", "dept-cs", 0),
		facultyFixture("f2", "dept-math", 0),
	}

	ranked := NewFacultyMatcher().Rank(subject, pool, seededLedger(pool...), Constraints{})
	require.Len(t, ranked, 1)
	assert.Equal(t, "f1", ranked[0].ID)
}

func TestFacultyMatcherUndepartmentedSubjectAcceptsAnyDepartment(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	pool := []models.Faculty{
		facultyFixture("f1", "dept-cs", 0),
		facultyFixture("f2", "dept-math", 0),
	}

	ranked := NewFacultyMatcher().Rank(subject, pool, seededLedger(pool...), Constraints{})
	assert.Len(t, ranked, 2)
}

func TestFacultyMatcherExcludesInactive(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	inactive := facultyFixture("f1", "dept-cs", 0)
	inactive.Active = false

	ranked := NewFacultyMatcher().Rank(subject, []models.Faculty{inactive}, seededLedger(inactive), Constraints{})
	assert.Empty(t, ranked)
}

func TestFacultyMatcherExcludesWhenLoadWouldExceedMax(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	loaded := facultyFixture("f1", "dept-cs", 25) // 25 + 3 > 26

	ranked := NewFacultyMatcher().Rank(subject, []models.Faculty{loaded}, seededLedger(loaded), Constraints{})
	assert.Empty(t, ranked)
}

func TestFacultyMatcherExcludesAtMaxPreparations(t *testing.T) {
	subject := models.Subject{ID: "s-new", LectureUnits: 3}
	f := facultyFixture("f1", "dept-cs", 0)
	f.CurrentPreparations = 4

	ranked := NewFacultyMatcher().Rank(subject, []models.Faculty{f}, seededLedger(f), Constraints{})
	assert.Empty(t, ranked)
}

func TestFacultyMatcherOrdersByHeadroomDescending(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	pool := []models.Faculty{
		facultyFixture("busy", "dept-cs", 15),
		facultyFixture("idle", "dept-cs", 0),
		facultyFixture("mid", "dept-cs", 6),
	}

	ranked := NewFacultyMatcher().Rank(subject, pool, seededLedger(pool...), Constraints{})
	require.Len(t, ranked, 3)
	assert.Equal(t, "idle", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "busy", ranked[2].ID)
}

func TestFacultyMatcherFairnessAfterCommit(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	pool := []models.Faculty{
		facultyFixture("a", "dept-cs", 0),
		facultyFixture("b", "dept-cs", 2),
	}
	ledger := seededLedger(pool...)

	matcher := NewFacultyMatcher()
	ranked := matcher.Rank(subject, pool, ledger, Constraints{})
	require.Equal(t, "a", ranked[0].ID)

	// Committing 6 units to the winner strictly shrinks its headroom and
	// drops it below the untouched peer.
	ledger.Commit("a", "s1", 6)
	reranked := matcher.Rank(models.Subject{ID: "s2", LectureUnits: 3}, pool, ledger, Constraints{})
	require.Len(t, reranked, 2)
	assert.Equal(t, "b", reranked[0].ID)
	assert.Equal(t, "a", reranked[1].ID)
}

func TestFacultyMatcherPrefersBelowMinimumLoad(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	comfortable := facultyFixture("comfortable", "dept-cs", 20) // above min 18, headroom 10
	comfortable.MinLoad = 18
	comfortable.MaxLoad = 30
	starved := facultyFixture("starved", "dept-cs", 12) // below min 18, headroom 4
	starved.MinLoad = 18
	starved.MaxLoad = 16

	pool := []models.Faculty{comfortable, starved}
	ranked := NewFacultyMatcher().Rank(subject, pool, seededLedger(pool...), Constraints{})
	require.Len(t, ranked, 2)
	assert.Equal(t, "starved", ranked[0].ID, "underloaded faculty are filled before headroom ordering applies")
	assert.Equal(t, "comfortable", ranked[1].ID)
}

func TestFacultyMatcherMinLoadConstraintOverride(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	a := facultyFixture("a", "dept-cs", 20)
	a.MaxLoad = 24
	b := facultyFixture("b", "dept-cs", 21)

	// Both sit above the default minimum of 18, and b has the larger headroom
	// (5 against a's 4), so plain headroom ordering would put b first. Raising
	// the floor to 21 marks only a as underloaded.
	pool := []models.Faculty{b, a}
	ranked := NewFacultyMatcher().Rank(subject, pool, seededLedger(pool...), Constraints{MinLoad: 21})
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].ID)
}

func TestFacultyMatcherHonoursConstraintOverride(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	f := facultyFixture("f1", "dept-cs", 10) // 10 + 3 > 12 override

	ranked := NewFacultyMatcher().Rank(subject, []models.Faculty{f}, seededLedger(f), Constraints{MaxLoad: 12})
	assert.Empty(t, ranked)
}

func classroomFixture(id string, capacity int, roomType string) models.Classroom {
	return models.Classroom{
		ID: id, RoomNumber: id, Building: "Main", Capacity: capacity,
		Type: roomType, Status: models.RoomAvailable,
	}
}

func TestClassroomMatcherFiltersStatusAndCapacity(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	unavailable := classroomFixture("r1", 50, models.RoomLecture)
	unavailable.Status = models.RoomMaintenance
	small := classroomFixture("r2", 20, models.RoomLecture)
	fits := classroomFixture("r3", 35, models.RoomLecture)

	ranked := NewClassroomMatcher().Rank(subject, []models.Classroom{unavailable, small, fits}, Constraints{})
	require.Len(t, ranked, 1)
	assert.Equal(t, "r3", ranked[0].ID)
}

func TestClassroomMatcherLaboratoryRestriction(t *testing.T) {
	lab := models.Subject{ID: "s1", LabUnits: 3, IsLaboratory: true}
	rooms := []models.Classroom{
		classroomFixture("lecture", 40, models.RoomLecture),
		classroomFixture("complab", 40, models.RoomComputerLab),
		classroomFixture("wetlab", 40, models.RoomLaboratory),
	}

	ranked := NewClassroomMatcher().Rank(lab, rooms, Constraints{})
	require.Len(t, ranked, 2)
	for _, room := range ranked {
		assert.True(t, room.SuitsLaboratory())
	}
}

func TestClassroomMatcherLectureNotRestrictedByType(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	rooms := []models.Classroom{
		classroomFixture("conf", 40, models.RoomConference),
		classroomFixture("lab", 40, models.RoomLaboratory),
	}

	ranked := NewClassroomMatcher().Rank(subject, rooms, Constraints{})
	assert.Len(t, ranked, 2)
}

func TestClassroomMatcherRequiredFacilities(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	plain := classroomFixture("plain", 40, models.RoomLecture)
	equipped := classroomFixture("equipped", 40, models.RoomLecture)
	equipped.Facilities = []string{"projector", "aircon"}

	ranked := NewClassroomMatcher().Rank(subject, []models.Classroom{plain, equipped}, Constraints{RequiredFacilities: []string{"projector"}})
	require.Len(t, ranked, 1)
	assert.Equal(t, "equipped", ranked[0].ID)
}

func TestClassroomMatcherTightestFitFirst(t *testing.T) {
	subject := models.Subject{ID: "s1", LectureUnits: 3}
	rooms := []models.Classroom{
		classroomFixture("huge", 200, models.RoomLecture),
		classroomFixture("snug", 32, models.RoomLecture),
		classroomFixture("roomy", 60, models.RoomLecture),
	}

	ranked := NewClassroomMatcher().Rank(subject, rooms, Constraints{})
	require.Len(t, ranked, 3)
	assert.Equal(t, "snug", ranked[0].ID)
	assert.Equal(t, "roomy", ranked[1].ID)
	assert.Equal(t, "huge", ranked[2].ID)
}
