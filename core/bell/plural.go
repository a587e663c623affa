package bell

// Form is a plural-count agreement category.
type Form int

const (
	One Form = iota
	Few
	Many
)

func (f Form) String() string {
	switch f {
	case One:
		return "one"
	case Few:
		return "few"
	default:
		return "many"
	}
}

// MinuteForm classifies n for "minute" agreement.
func MinuteForm(n int) Form {
	if n > 10 && n < 20 {
		return Many
	}
	if n%10 == 1 {
		return One
	}
	if (n-1)%10 < 4 {
		return Few
	}
	return Many
}

var minuteWords = map[Form]string{
	One:  "минута",
	Few:  "минуты",
	Many: "минут",
}

// MinuteWord returns the word for "minute" agreeing with n.
func MinuteWord(n int) string {
	return minuteWords[MinuteForm(n)]
}
