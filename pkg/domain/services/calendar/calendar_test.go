package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddBusinessDays_SkipsWeekend(t *testing.T) {
	// Friday 2026-07-31 + 1 business day -> Monday 2026-08-03
	friday := date(2026, time.July, 31)
	got := AddBusinessDays(Default, friday, 1)
	want := date(2026, time.August, 3)
	if !got.Equal(want) {
		t.Errorf("AddBusinessDays(Friday, 1) = %v, want %v", got, want)
	}
}

func TestAddBusinessDays_Zero(t *testing.T) {
	d := date(2026, time.July, 30)
	got := AddBusinessDays(Default, d, 0)
	if !got.Equal(d) {
		t.Errorf("AddBusinessDays(d, 0) = %v, want unchanged %v", got, d)
	}
}

func TestSubtractBusinessDays_SkipsWeekend(t *testing.T) {
	// Monday 2026-08-03 - 1 business day -> Friday 2026-07-31
	monday := date(2026, time.August, 3)
	got := SubtractBusinessDays(Default, monday, 1)
	want := date(2026, time.July, 31)
	if !got.Equal(want) {
		t.Errorf("SubtractBusinessDays(Monday, 1) = %v, want %v", got, want)
	}
}

func TestWeekday_IsBusinessDay(t *testing.T) {
	cal := Weekday{}
	if cal.IsBusinessDay(date(2026, time.August, 1)) {
		t.Error("Saturday 2026-08-01 should not be a business day")
	}
	if cal.IsBusinessDay(date(2026, time.August, 2)) {
		t.Error("Sunday 2026-08-02 should not be a business day")
	}
	if !cal.IsBusinessDay(date(2026, time.July, 30)) {
		t.Error("Thursday 2026-07-30 should be a business day")
	}
}

func TestFormatAndParseISO_RoundTrip(t *testing.T) {
	d := date(2026, time.July, 30)
	s := FormatISO(d)
	if s != "2026-07-30" {
		t.Fatalf("FormatISO: got %q, want 2026-07-30", s)
	}
	parsed, err := ParseISO(s)
	if err != nil {
		t.Fatalf("ParseISO: %v", err)
	}
	if !parsed.Equal(d) {
		t.Errorf("ParseISO round trip: got %v, want %v", parsed, d)
	}
}

func TestCivilDate_StripsTimeOfDay(t *testing.T) {
	t1 := time.Date(2026, time.July, 30, 14, 30, 0, 0, time.UTC)
	got := CivilDate(t1)
	want := date(2026, time.July, 30)
	if !got.Equal(want) {
		t.Errorf("CivilDate: got %v, want %v", got, want)
	}
}
