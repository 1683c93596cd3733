package hours

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTotal_RegularShiftWithBreak(t *testing.T) {
	// 09:00 - 17:00 minus a one hour break.
	got, err := Total(9*60, 17*60, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.RequireFromString("7"); !got.Equal(want) {
		t.Fatalf("expected %s hours, got %s", want, got)
	}
}

func TestTotal_OvernightShiftWraps(t *testing.T) {
	// 22:00 - 06:00 next day minus 30 minutes: 480 - 30 = 450 minutes.
	got, err := Total(22*60, 6*60, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.RequireFromString("7.5"); !got.Equal(want) {
		t.Fatalf("expected %s hours, got %s", want, got)
	}
}

func TestTotal_BreakLongerThanShiftFloorsAtZero(t *testing.T) {
	got, err := Total(9*60, 10*60, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected 0 hours, got %s", got)
	}
}

func TestTotal_RoundsToTwoDecimals(t *testing.T) {
	// 100 minutes = 1.666... hours, rounds to 1.67.
	got, err := Total(0, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.RequireFromString("1.67"); !got.Equal(want) {
		t.Fatalf("expected %s hours, got %s", want, got)
	}
}

func TestTotal_RejectsNegativeBreak(t *testing.T) {
	if _, err := Total(9*60, 17*60, -1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"09:60", 0, true},
		{"garbage", 0, true},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseClock(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseClock(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatClock_RoundTrips(t *testing.T) {
	for _, s := range []string{"00:00", "08:05", "13:37", "23:59"} {
		m, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", s, err)
		}
		if got := FormatClock(m); got != s {
			t.Fatalf("FormatClock(ParseClock(%q)) = %q", s, got)
		}
	}
}
