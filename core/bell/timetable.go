// Package bell resolves the school bell schedule: which lesson or break is running,
// how many minutes are left and which shift is active.
package bell

import "time"

// Variant is one of the weekly bell-schedule configurations.
type Variant int

const (
	Standard Variant = iota
	Monday
	Saturday
)

// Sentinel terminates every boundary sequence so a scan always finds a "next" entry.
const Sentinel = 9999

// DayStart is the first lesson start of every variant.
const DayStart = 800

func (v Variant) String() string {
	switch v {
	case Monday:
		return "monday"
	case Saturday:
		return "saturday"
	default:
		return "standard"
	}
}

// VariantFor selects the timetable used on the given weekday.
func VariantFor(day time.Weekday) Variant {
	switch day {
	case time.Monday:
		return Monday
	case time.Saturday:
		return Saturday
	default:
		return Standard
	}
}

// VariantForDay is VariantFor using the 0-6 (Sunday = 0) convention.
func VariantForDay(day int) Variant {
	return VariantFor(time.Weekday(day))
}

// Table holds the HHMM boundaries of a variant.
// Both sequences are strictly increasing, sentinel terminated and of equal length.
type Table struct {
	ClassStarts []int
	BreakStarts []int
}

var tables = map[Variant]Table{
	Monday: {
		ClassStarts: []int{800, 835, 925, 1025, 1125, 1225, 1315, 1400, 1440, 1540, 1630, 1720, 1805, Sentinel},
		BreakStarts: []int{830, 915, 1005, 1105, 1205, 1305, 1355, 1420, 1520, 1620, 1710, 1800, 1845, Sentinel},
	},
	Standard: {
		ClassStarts: []int{800, 850, 950, 1050, 1150, 1240, 1330, 1430, 1530, 1620, 1710, 1755, Sentinel},
		BreakStarts: []int{840, 930, 1030, 1130, 1230, 1320, 1410, 1510, 1610, 1700, 1750, 1835, Sentinel},
	},
	Saturday: {
		ClassStarts: []int{800, 850, 940, 1030, 1120, 1210, 1300, 1350, 1440, 1530, 1620, 1710, 1800, Sentinel},
		BreakStarts: []int{840, 930, 1020, 1110, 1200, 1250, 1340, 1430, 1520, 1610, 1700, 1750, 1840, Sentinel},
	},
}

var endOfDay = map[Variant]int{
	Monday:   1850,
	Standard: 1845,
	Saturday: 1840,
}

// TableFor returns the boundaries of v. The slices are shared; do not modify them.
func TableFor(v Variant) Table {
	return tables[v]
}

// EndOfDay returns the (exclusive) HHMM time at which the school day of v ends.
func EndOfDay(v Variant) int {
	return endOfDay[v]
}

// Variants lists every known variant.
func Variants() []Variant {
	return []Variant{Standard, Monday, Saturday}
}
