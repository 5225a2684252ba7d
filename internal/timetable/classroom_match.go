package timetable

import (
	"sort"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// ClassroomMatcher filters and ranks classrooms suitable for a subject.
type ClassroomMatcher struct{}

// NewClassroomMatcher constructs a matcher.
func NewClassroomMatcher() *ClassroomMatcher {
	return &ClassroomMatcher{}
}

// Rank returns suitable rooms ordered tightest capacity fit first, so large
// rooms are not wasted on small classes. Laboratory subjects are restricted to
// laboratory and computer-lab rooms; lecture subjects accept any type.
func (m *ClassroomMatcher) Rank(subject models.Subject, pool []models.Classroom, cons Constraints) []models.Classroom {
	minCapacity := cons.EffectiveMinCapacity()

	eligible := make([]models.Classroom, 0, len(pool))
	for _, room := range pool {
		if room.Status != models.RoomAvailable {
			continue
		}
		if room.Capacity < minCapacity {
			continue
		}
		if !room.HasFacilities(cons.RequiredFacilities) {
			continue
		}
		if subject.IsLaboratory && !room.SuitsLaboratory() {
			continue
		}
		eligible = append(eligible, room)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Capacity-minCapacity < eligible[j].Capacity-minCapacity
	})

	return eligible
}
