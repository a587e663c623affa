package bell

import (
	"testing"
	"time"
)

func TestTables(t *testing.T) {
	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			tbl := TableFor(v)
			if len(tbl.ClassStarts) != len(tbl.BreakStarts) {
				t.Fatalf("len(ClassStarts) = %d, len(BreakStarts) = %d", len(tbl.ClassStarts), len(tbl.BreakStarts))
			}
			for _, seq := range [][]int{tbl.ClassStarts, tbl.BreakStarts} {
				if seq[len(seq)-1] != Sentinel {
					t.Errorf("sequence %v is not sentinel terminated", seq)
				}
				for i := 1; i < len(seq); i++ {
					if seq[i] <= seq[i-1] {
						t.Errorf("sequence %v not strictly increasing at %d", seq, i)
					}
				}
			}
			if tbl.ClassStarts[0] != DayStart {
				t.Errorf("first class starts at %d, want %d", tbl.ClassStarts[0], DayStart)
			}
			// the school day ends once the last break begins
			if last := tbl.BreakStarts[len(tbl.BreakStarts)-2]; EndOfDay(v) < last {
				t.Errorf("EndOfDay() = %d is before last break %d", EndOfDay(v), last)
			}
		})
	}
}

func TestVariantFor(t *testing.T) {
	tests := []struct {
		day  time.Weekday
		want Variant
	}{
		{time.Sunday, Standard},
		{time.Monday, Monday},
		{time.Tuesday, Standard},
		{time.Wednesday, Standard},
		{time.Thursday, Standard},
		{time.Friday, Standard},
		{time.Saturday, Saturday},
	}
	for _, tt := range tests {
		t.Run(tt.day.String(), func(t *testing.T) {
			if got := VariantFor(tt.day); got != tt.want {
				t.Errorf("VariantFor() = %v, want %v", got, tt.want)
			}
			if got := VariantForDay(int(tt.day)); got != tt.want {
				t.Errorf("VariantForDay() = %v, want %v", got, tt.want)
			}
		})
	}
}
