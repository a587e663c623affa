package bell

import "time"

// lunchBias is subtracted from every remaining-minutes value above it.
// Raw HHMM subtraction across an hour boundary overshoots by exactly 40.
const lunchBias = 40

// periodsPerShift is the number of periods displayed per shift.
const periodsPerShift = 7

// State is the bell schedule at a single instant. It is recomputed on every query.
type State struct {
	Finished         bool `json:"finished"`
	IsBreak          bool `json:"is_break"`
	Period           int  `json:"period"`    // 1-based ordinal of the lesson or break within the day
	ClassNum         int  `json:"class_num"` // ordinal within the shift
	MinutesRemaining int  `json:"minutes_remaining"`
	Shift            int  `json:"shift"` // 1 (morning) or 2 (afternoon)
}

// Label is the display name of the running period.
func (s State) Label() string {
	if s.IsBreak {
		return "Перемена"
	}
	return "Урок"
}

// Kind is "break" or "lesson".
func (s State) Kind() string {
	if s.IsBreak {
		return "break"
	}
	return "lesson"
}

// boundary is the entry preceding the first value greater than the scanned time.
// An index of -1 (time before the first entry) carries no value: it never compares less.
type boundary struct {
	index   int
	value   int
	defined bool
}

func closest(now int, starts []int) boundary {
	for i, start := range starts {
		if now-start < 0 {
			i--
			if i < 0 {
				return boundary{index: i}
			}
			return boundary{index: i, value: starts[i], defined: true}
		}
	}
	return boundary{defined: true}
}

func (b boundary) less(o boundary) bool {
	return b.defined && o.defined && b.value < o.value
}

// HHMM encodes the time of day of t as hours*100 + minutes.
func HHMM(t time.Time) int {
	return t.Hour()*100 + t.Minute()
}

// Resolve returns the bell schedule state at now (HHMM) under variant v.
//
// now must be within [0, 2359]; any other value is a precondition violation and the
// result is undefined. Boundaries are subtracted as raw HHMM integers, not minutes.
func Resolve(now int, v Variant) State {
	if now < DayStart || now >= EndOfDay(v) {
		return State{Finished: true}
	}

	tbl := TableFor(v)
	cls := closest(now, tbl.ClassStarts)
	brk := closest(now, tbl.BreakStarts)

	var st State
	var end int
	if cls.less(brk) {
		st.IsBreak = true
		st.Period = brk.index + 1
		end = tbl.ClassStarts[cls.index+1]
	} else {
		st.Period = cls.index + 1
		end = tbl.BreakStarts[brk.index+1]
	}

	st.MinutesRemaining = end - now
	if st.MinutesRemaining > lunchBias {
		st.MinutesRemaining -= lunchBias
	}

	index := st.Period
	if v == Monday {
		index--
	}
	st.ClassNum = ((index - 1) % periodsPerShift) + 1
	if index < periodsPerShift {
		st.Shift = 1
	} else {
		st.Shift = 2
	}
	return st
}

// At resolves the state at t, seen in loc.
func At(t time.Time, loc *time.Location) State {
	if loc != nil {
		t = t.In(loc)
	}
	return Resolve(HHMM(t), VariantFor(t.Weekday()))
}
