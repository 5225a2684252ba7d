package timetable

import (
	"time"

	"github.com/noah-isme/uni-timetable-api/internal/models"
)

// Day patterns are the atomic scheduling unit for a subject's weekly meetings:
// lectures meet on one of three two-day pairs, laboratories on Tue/Thu only.
// Scheduling whole patterns keeps a course from scattering across unrelated days.
var lecturePatterns = [][]string{
	{models.DayMonday, models.DayWednesday},
	{models.DayMonday, models.DayFriday},
	{models.DayWednesday, models.DayFriday},
}

var labPatterns = [][]string{
	{models.DayTuesday, models.DayThursday},
}

// Candidate starts run every half hour from 07:00 through 17:30.
const (
	firstStartMinute = 7 * 60
	lastStartMinute  = 17*60 + 30
	startStepMinutes = 30
)

// SlotGenerator enumerates the fixed universe of candidate time slots.
// Generation is a pure function of the policy constants and the configured
// session duration and closing bound.
type SlotGenerator struct {
	sessionMinutes int
	closingMinute  int
}

// NewSlotGenerator builds a generator. A non-positive duration falls back to
// the standard 1.5-hour session; an unparseable closing time falls back to 19:00.
func NewSlotGenerator(sessionDuration time.Duration, closingTime string) *SlotGenerator {
	minutes := int(sessionDuration.Minutes())
	if minutes <= 0 {
		minutes = 90
	}
	closing := models.MinuteOfDay(closingTime)
	if closing < 0 {
		closing = 19 * 60
	}
	return &SlotGenerator{sessionMinutes: minutes, closingMinute: closing}
}

// Generate returns every candidate slot for the session type, one TimeSlot per
// (day-in-pattern, start time) combination, patterns outermost. Slots whose end
// would run past the closing bound are skipped. Output is deterministic.
func (g *SlotGenerator) Generate(sessionType string) []models.TimeSlot {
	patterns := lecturePatterns
	if sessionType == models.SessionLaboratory {
		patterns = labPatterns
	}

	var slots []models.TimeSlot
	for _, pattern := range patterns {
		for _, day := range pattern {
			for start := firstStartMinute; start <= lastStartMinute; start += startStepMinutes {
				end := start + g.sessionMinutes
				if end > g.closingMinute {
					continue
				}
				slots = append(slots, models.TimeSlot{
					DayOfWeek: day,
					StartTime: models.FormatClock(start),
					EndTime:   models.FormatClock(end),
				})
			}
		}
	}
	return slots
}

// PatternForDay classifies a day: it returns the session type whose patterns
// contain the day, plus the pattern days themselves. Weekend days belong to no
// pattern.
func PatternForDay(day string) (sessionType string, days []string, ok bool) {
	for _, pattern := range labPatterns {
		for _, d := range pattern {
			if d == day {
				return models.SessionLaboratory, pattern, true
			}
		}
	}
	for _, pattern := range lecturePatterns {
		for _, d := range pattern {
			if d == day {
				return models.SessionLecture, pattern, true
			}
		}
	}
	return "", nil, false
}
