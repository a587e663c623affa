package bell

import (
	"fmt"
	"testing"
)

func TestMinuteWord(t *testing.T) {
	tests := []struct {
		n    int
		form Form
		want string
	}{
		{1, One, "минута"},
		{2, Few, "минуты"},
		{3, Few, "минуты"},
		{4, Few, "минуты"},
		{5, Many, "минут"},
		{10, Many, "минут"},
		{11, Many, "минут"},
		{12, Many, "минут"},
		{14, Many, "минут"},
		{19, Many, "минут"},
		{20, Many, "минут"},
		{21, One, "минута"},
		{22, Few, "минуты"},
		{25, Many, "минут"},
		{31, One, "минута"},
		{34, Few, "минуты"},
		{40, Many, "минут"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			if got := MinuteForm(tt.n); got != tt.form {
				t.Errorf("MinuteForm(%d) = %v, want %v", tt.n, got, tt.form)
			}
			if got := MinuteWord(tt.n); got != tt.want {
				t.Errorf("MinuteWord(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}
