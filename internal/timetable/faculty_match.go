package timetable

import (
	"sort"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// FacultyMatcher filters and ranks faculty eligible to teach a subject.
type FacultyMatcher struct{}

// NewFacultyMatcher constructs a matcher.
func NewFacultyMatcher() *FacultyMatcher {
	return &FacultyMatcher{}
}

// Rank returns the eligible pool ordered most-preferred first. Faculty still
// below their minimum load come first, so underloaded members are filled up
// before anyone else; within each group ordering is by remaining headroom
// (effective max load minus committed units) descending. An empty result is a
// valid, reportable outcome.
//
// Subjects without a department bypass the department filter: any active
// faculty member may teach them.
func (m *FacultyMatcher) Rank(subject models.Subject, pool []models.Faculty, ledger *LoadLedger, cons Constraints) []models.Faculty {
	type scored struct {
		faculty  models.Faculty
		headroom int
		belowMin bool
	}

	eligible := make([]scored, 0, len(pool))
	for _, f := range pool {
		if !f.Active {
			continue
		}
		if subject.DepartmentID != nil && f.DepartmentID != *subject.DepartmentID {
			continue
		}

		maxLoad := f.EffectiveMaxLoad()
		if cons.MaxLoad > 0 && cons.MaxLoad < maxLoad {
			maxLoad = cons.MaxLoad
		}
		units := ledger.Units(f.ID)
		if units+subject.TotalUnits() > maxLoad {
			continue
		}

		maxPreps := f.EffectiveMaxPreparations()
		if cons.MaxPreparations > 0 && cons.MaxPreparations < maxPreps {
			maxPreps = cons.MaxPreparations
		}
		if ledger.Preparations(f.ID) >= maxPreps {
			continue
		}

		minLoad := f.EffectiveMinLoad()
		if cons.MinLoad > 0 {
			minLoad = cons.MinLoad
		}

		eligible = append(eligible, scored{faculty: f, headroom: maxLoad - units, belowMin: units < minLoad})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].belowMin != eligible[j].belowMin {
			return eligible[i].belowMin
		}
		return eligible[i].headroom > eligible[j].headroom
	})

	ranked := make([]models.Faculty, len(eligible))
	for i, e := range eligible {
		ranked[i] = e.faculty
	}
	return ranked
}
