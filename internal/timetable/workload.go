package timetable

import "github.com/noah-isme/uni-timetable-api/internal/models"

// Labs need more contact time per credit than lectures: one lecture unit is
// one contact hour, one lab unit is 1/0.75 contact hours.
const labUnitDivisor = 0.75

// LectureHours converts lecture units into weekly contact hours.
func LectureHours(units int) float64 {
	return float64(units)
}

// LabHours converts laboratory units into weekly contact hours.
func LabHours(units int) float64 {
	return float64(units) / labUnitDivisor
}

// SessionHours returns the contact hours a scheduled session contributes,
// based on its session-type tag and the subject's stored unit counts.
func SessionHours(sessionType string, lectureUnits, labUnits int) float64 {
	if sessionType == models.SessionLaboratory {
		return LabHours(labUnits)
	}
	return LectureHours(lectureUnits)
}

// ClassifyLoad buckets a teaching-hour total against the configured bounds.
// Inclusive bounds count as optimal.
func ClassifyLoad(hours float64, min, max int) string {
	if min <= 0 {
		min = models.DefaultMinLoad
	}
	if max <= 0 {
		max = models.DefaultMaxLoad
	}
	switch {
	case hours < float64(min):
		return models.LoadUnderloaded
	case hours > float64(max):
		return models.LoadOverloaded
	default:
		return models.LoadOptimal
	}
}
