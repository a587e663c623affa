package bell

import (
	"fmt"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		now     int
		variant Variant
		want    State
	}{
		{name: "before day start", now: 759, variant: Standard, want: State{Finished: true}},
		{name: "midnight", now: 0, variant: Saturday, want: State{Finished: true}},
		{name: "standard end of day", now: 1845, variant: Standard, want: State{Finished: true}},
		{name: "monday end of day", now: 1850, variant: Monday, want: State{Finished: true}},
		{name: "saturday end of day", now: 1840, variant: Saturday, want: State{Finished: true}},
		{
			name: "first lesson starts", now: 800, variant: Standard,
			want: State{Period: 1, ClassNum: 1, MinutesRemaining: 40, Shift: 1},
		},
		{
			name: "first lesson ending", now: 835, variant: Standard,
			want: State{Period: 1, ClassNum: 1, MinutesRemaining: 5, Shift: 1},
		},
		{
			name: "first break starts", now: 840, variant: Standard,
			want: State{IsBreak: true, Period: 1, ClassNum: 1, MinutesRemaining: 10, Shift: 1},
		},
		{
			name: "first break", now: 845, variant: Standard,
			want: State{IsBreak: true, Period: 1, ClassNum: 1, MinutesRemaining: 5, Shift: 1},
		},
		{
			name: "across hour boundary", now: 855, variant: Standard,
			want: State{Period: 2, ClassNum: 2, MinutesRemaining: 35, Shift: 1},
		},
		{
			name: "fifth break", now: 1235, variant: Standard,
			want: State{IsBreak: true, Period: 5, ClassNum: 5, MinutesRemaining: 5, Shift: 1},
		},
		{
			name: "sixth lesson", now: 1250, variant: Standard,
			want: State{Period: 6, ClassNum: 6, MinutesRemaining: 30, Shift: 1},
		},
		{
			name: "seventh lesson starts afternoon shift", now: 1330, variant: Standard,
			want: State{Period: 7, ClassNum: 7, MinutesRemaining: 40, Shift: 2},
		},
		{
			name: "monday homeroom", now: 800, variant: Monday,
			want: State{Period: 1, ClassNum: 0, MinutesRemaining: 30, Shift: 1},
		},
		{
			name: "monday first break", now: 831, variant: Monday,
			want: State{IsBreak: true, Period: 1, ClassNum: 0, MinutesRemaining: 4, Shift: 1},
		},
		{
			name: "monday first lesson", now: 840, variant: Monday,
			want: State{Period: 2, ClassNum: 1, MinutesRemaining: 35, Shift: 1},
		},
		{
			name: "saturday last lesson", now: 1839, variant: Saturday,
			want: State{Period: 13, ClassNum: 6, MinutesRemaining: 1, Shift: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.now, tt.variant); got != tt.want {
				t.Errorf("Resolve(%d, %v) = %+v, want %+v", tt.now, tt.variant, got, tt.want)
			}
		})
	}
}

func TestResolveProperties(t *testing.T) {
	for _, v := range Variants() {
		for h := 0; h < 24; h++ {
			for m := 0; m < 60; m++ {
				now := h*100 + m
				got := Resolve(now, v)

				if got != Resolve(now, v) {
					t.Fatalf("Resolve(%d, %v) is not deterministic", now, v)
				}

				inDay := now >= DayStart && now < EndOfDay(v)
				if got.Finished == inDay {
					t.Errorf("Resolve(%d, %v).Finished = %v", now, v, got.Finished)
				}
				if got.Finished {
					if got != (State{Finished: true}) {
						t.Errorf("Resolve(%d, %v) finished state carries data: %+v", now, v, got)
					}
					continue
				}

				if got.Period < 1 {
					t.Errorf("Resolve(%d, %v).Period = %d", now, v, got.Period)
				}
				if got.Shift != 1 && got.Shift != 2 {
					t.Errorf("Resolve(%d, %v).Shift = %d", now, v, got.Shift)
				}
				if got.ClassNum < 0 || got.ClassNum > periodsPerShift {
					t.Errorf("Resolve(%d, %v).ClassNum = %d", now, v, got.ClassNum)
				}
				if got.MinutesRemaining <= 0 {
					t.Errorf("Resolve(%d, %v).MinutesRemaining = %d", now, v, got.MinutesRemaining)
				}
			}
		}
	}
}

func TestResolveShiftMonotonic(t *testing.T) {
	for _, v := range Variants() {
		prev := 1
		for now := DayStart; now < EndOfDay(v); now++ {
			if now%100 >= 60 {
				continue
			}
			got := Resolve(now, v)
			if got.Shift < prev {
				t.Fatalf("%v: shift went from %d back to %d at %d", v, prev, got.Shift, now)
			}
			prev = got.Shift
		}
	}
}

func TestHHMM(t *testing.T) {
	tests := []struct {
		h, m int
		want int
	}{
		{0, 0, 0},
		{8, 5, 805},
		{13, 30, 1330},
		{23, 59, 2359},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.want), func(t *testing.T) {
			tm := time.Date(2024, time.March, 5, tt.h, tt.m, 42, 0, time.UTC)
			if got := HHMM(tm); got != tt.want {
				t.Errorf("HHMM() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	loc := time.FixedZone("MSK+1", 4*60*60)

	// Monday 2024-03-04 04:40 UTC is 08:40 local
	mon := time.Date(2024, time.March, 4, 4, 40, 0, 0, time.UTC)
	if got, want := At(mon, loc), Resolve(840, Monday); got != want {
		t.Errorf("At(monday) = %+v, want %+v", got, want)
	}

	// Saturday 2024-03-09 20:30 UTC is Sunday 00:30 local
	sat := time.Date(2024, time.March, 9, 20, 30, 0, 0, time.UTC)
	if got := At(sat, loc); !got.Finished {
		t.Errorf("At(saturday night) = %+v, want finished", got)
	}

	if got, want := At(mon, nil), Resolve(440, Monday); got != want {
		t.Errorf("At(nil loc) = %+v, want %+v", got, want)
	}
}

func TestLabels(t *testing.T) {
	lesson := State{Period: 1}
	brk := State{IsBreak: true, Period: 1}
	if lesson.Label() != "Урок" || lesson.Kind() != "lesson" {
		t.Errorf("lesson labels = %q, %q", lesson.Label(), lesson.Kind())
	}
	if brk.Label() != "Перемена" || brk.Kind() != "break" {
		t.Errorf("break labels = %q, %q", brk.Label(), brk.Kind())
	}
}
