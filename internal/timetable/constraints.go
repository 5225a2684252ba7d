package timetable

// Constraints bundles the per-run generation knobs. Zero values mean "use the
// per-record or institutional defaults".
type Constraints struct {
	MaxLoad            int
	MinLoad            int
	MaxPreparations    int
	MinCapacity        int
	RequiredFacilities []string
	AllowedDays        []string
}

const defaultMinCapacity = 30

// EffectiveMinCapacity returns the requested minimum room capacity.
func (c Constraints) EffectiveMinCapacity() int {
	if c.MinCapacity > 0 {
		return c.MinCapacity
	}
	return defaultMinCapacity
}

func (c Constraints) allowsDay(day string) bool {
	if len(c.AllowedDays) == 0 {
		return true
	}
	for _, d := range c.AllowedDays {
		if d == day {
			return true
		}
	}
	return false
}
