package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlotOverlaps(t *testing.T) {
	a := TimeSlot{DayOfWeek: DayMonday, StartTime: "09:00", EndTime: "10:00"}
	b := TimeSlot{DayOfWeek: DayMonday, StartTime: "09:30", EndTime: "10:30"}
	c := TimeSlot{DayOfWeek: DayMonday, StartTime: "10:00", EndTime: "11:00"}
	d := TimeSlot{DayOfWeek: DayTuesday, StartTime: "09:00", EndTime: "10:00"}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a), "overlap must be symmetric")
	assert.False(t, a.Overlaps(c), "touching boundaries do not overlap")
	assert.False(t, c.Overlaps(a))
	assert.False(t, a.Overlaps(d), "different days never overlap")
}

func TestTimeSlotOverlapsContainment(t *testing.T) {
	outer := TimeSlot{DayOfWeek: DayFriday, StartTime: "08:00", EndTime: "12:00"}
	inner := TimeSlot{DayOfWeek: DayFriday, StartTime: "09:00", EndTime: "10:00"}

	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}

func TestMinuteOfDay(t *testing.T) {
	assert.Equal(t, 0, MinuteOfDay("00:00"))
	assert.Equal(t, 7*60, MinuteOfDay("07:00"))
	assert.Equal(t, 17*60+30, MinuteOfDay("17:30"))
	assert.Equal(t, -1, MinuteOfDay("25:00"))
	assert.Equal(t, -1, MinuteOfDay("nine"))
	assert.Equal(t, -1, MinuteOfDay(""))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "07:00", FormatClock(7*60))
	assert.Equal(t, "17:30", FormatClock(17*60+30))
}

func TestValidDay(t *testing.T) {
	assert.True(t, ValidDay(DayMonday))
	assert.False(t, ValidDay("FUNDAY"))
}
