package hours

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	minutesPerDay = 24 * 60

	// Scale is the decimal precision of totalHours.
	Scale int32 = 2
)

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ParseClock parses a wall-clock "HH:MM" value into a minute-of-day (0-1439).
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ValidationError{Code: "TIME_INVALID", Message: fmt.Sprintf("time must be HH:MM, got %q", s)}
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return 0, ValidationError{Code: "TIME_INVALID", Message: fmt.Sprintf("time must be HH:MM, got %q", s)}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ValidationError{Code: "TIME_INVALID", Message: fmt.Sprintf("time out of range: %q", s)}
	}
	return h*60 + m, nil
}

// FormatClock renders a minute-of-day back to "HH:MM".
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// Total converts a shift into worked hours.
//
// Rules:
// - timeIn/timeOut are minute-of-day values; a timeOut before timeIn means the
//   shift ran overnight and ended on the following day (shifts are <= 24h).
// - breakMinutes is deducted from the raw span, floored at zero.
// - The result is rounded to Scale decimal places.
//
// totalHours is always derived here; it is never accepted as direct input.
func Total(timeIn, timeOut, breakMinutes int) (decimal.Decimal, error) {
	if timeIn < 0 || timeIn >= minutesPerDay {
		return decimal.Zero, ValidationError{Code: "TIME_INVALID", Message: "timeIn out of range"}
	}
	if timeOut < 0 || timeOut >= minutesPerDay {
		return decimal.Zero, ValidationError{Code: "TIME_INVALID", Message: "timeOut out of range"}
	}
	if breakMinutes < 0 {
		return decimal.Zero, ValidationError{Code: "BREAK_INVALID", Message: "breakMinutes must be >= 0"}
	}

	diff := timeOut - timeIn
	if diff < 0 {
		diff += minutesPerDay
	}
	net := diff - breakMinutes
	if net < 0 {
		net = 0
	}

	total := decimal.NewFromInt(int64(net)).
		Div(decimal.NewFromInt(60)).
		Round(Scale)
	return total, nil
}
