package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical day-of-week values used across schedules and slot generation.
const (
	DayMonday    = "MONDAY"
	DayTuesday   = "TUESDAY"
	DayWednesday = "WEDNESDAY"
	DayThursday  = "THURSDAY"
	DayFriday    = "FRIDAY"
	DaySaturday  = "SATURDAY"
	DaySunday    = "SUNDAY"
)

// TimeSlot is a value type describing one weekly meeting occurrence.
// Times are 24-hour "HH:MM" strings; equality is by (day, start, end).
type TimeSlot struct {
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// Overlaps reports whether two slots collide: same day and
// start1 < end2 AND end1 > start2. Touching boundaries do not overlap.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	if t.DayOfWeek != other.DayOfWeek {
		return false
	}
	s1, e1 := MinuteOfDay(t.StartTime), MinuteOfDay(t.EndTime)
	s2, e2 := MinuteOfDay(other.StartTime), MinuteOfDay(other.EndTime)
	if s1 < 0 || e1 < 0 || s2 < 0 || e2 < 0 {
		return false
	}
	return s1 < e2 && e1 > s2
}

// MinuteOfDay converts an "HH:MM" clock string to minutes since midnight.
// Malformed input yields -1.
func MinuteOfDay(clock string) int {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return -1
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return -1
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return -1
	}
	return hours*60 + minutes
}

// FormatClock renders minutes since midnight as an "HH:MM" string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidDay reports whether the given value is one of the seven day constants.
func ValidDay(day string) bool {
	switch day {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday:
		return true
	}
	return false
}
