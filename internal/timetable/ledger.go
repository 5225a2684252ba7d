package timetable

import (
	"context"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

type facultyLoad struct {
	units     int
	basePreps int
	base      map[string]struct{}
	subjects  map[string]struct{}
}

// LoadLedger tracks faculty units and distinct-subject counts for one
// generation run. It is seeded from the persisted counters and mutated only by
// the orchestrator's commit step, so later subjects in the same run observe
// earlier commitments without re-reading the store.
type LoadLedger struct {
	entries map[string]*facultyLoad
}

// NewLoadLedger builds an empty ledger.
func NewLoadLedger() *LoadLedger {
	return &LoadLedger{entries: make(map[string]*facultyLoad)}
}

// Seed records a faculty member's committed baseline: the persisted counters
// plus the subject ids already scheduled to them this term. Knowing the
// baseline subjects keeps a subject the member already teaches from counting
// as a second preparation during the run.
func (l *LoadLedger) Seed(f models.Faculty, baselineSubjects []string) {
	base := make(map[string]struct{}, len(baselineSubjects))
	for _, id := range baselineSubjects {
		base[id] = struct{}{}
	}
	l.entries[f.ID] = &facultyLoad{
		units:     f.CurrentLoad,
		basePreps: f.CurrentPreparations,
		base:      base,
		subjects:  make(map[string]struct{}),
	}
}

// Units returns the unit total currently committed to a faculty member.
func (l *LoadLedger) Units(facultyID string) int {
	if e, ok := l.entries[facultyID]; ok {
		return e.units
	}
	return 0
}

// Preparations returns the distinct-subject count, baseline plus this run.
// Run subjects already present in the baseline never land in the run set, so
// the sum carries no double count.
func (l *LoadLedger) Preparations(facultyID string) int {
	if e, ok := l.entries[facultyID]; ok {
		return e.basePreps + len(e.subjects)
	}
	return 0
}

// Teaches reports whether the faculty member already carries the subject,
// either from the persisted baseline or from this run's commits.
func (l *LoadLedger) Teaches(facultyID, subjectID string) bool {
	e, ok := l.entries[facultyID]
	if !ok {
		return false
	}
	if _, taught := e.base[subjectID]; taught {
		return true
	}
	_, taught := e.subjects[subjectID]
	return taught
}

// KnownSubjects returns every subject id attributed to a faculty member:
// persisted baseline plus this run's commits.
func (l *LoadLedger) KnownSubjects(facultyID string) []string {
	e, ok := l.entries[facultyID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(e.base)+len(e.subjects))
	for id := range e.base {
		ids = append(ids, id)
	}
	for id := range e.subjects {
		ids = append(ids, id)
	}
	return ids
}

// LedgerLoadSource adapts a LoadLedger to the detector's LoadSource port, so
// in-run commitments are visible to conflict checks without store reads.
type LedgerLoadSource struct {
	Ledger *LoadLedger
}

// CommittedLoad implements LoadSource.
func (s LedgerLoadSource) CommittedLoad(_ context.Context, facultyID, _, _, _ string) (CommittedLoad, error) {
	return CommittedLoad{
		Units:        s.Ledger.Units(facultyID),
		Preparations: s.Ledger.Preparations(facultyID),
		Subjects:     s.Ledger.KnownSubjects(facultyID),
	}, nil
}

// Commit adds an accepted assignment to the ledger. Returns true when the
// subject is a new preparation for the faculty member; a subject already in
// the baseline is never new.
func (l *LoadLedger) Commit(facultyID, subjectID string, units int) bool {
	e, ok := l.entries[facultyID]
	if !ok {
		e = &facultyLoad{subjects: make(map[string]struct{})}
		l.entries[facultyID] = e
	}
	e.units += units
	if _, taught := e.base[subjectID]; taught {
		return false
	}
	if _, taught := e.subjects[subjectID]; taught {
		return false
	}
	e.subjects[subjectID] = struct{}{}
	return true
}
