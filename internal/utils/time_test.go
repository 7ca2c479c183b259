package utils

import (
	"testing"
	"time"
)

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if got := FormatDate(d); got != "2026-03-15" {
		t.Errorf("FormatDate() = %q, want %q", got, "2026-03-15")
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Errorf("ParseDate() should land on midnight, got %v", d)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, bad := range []string{"2026-3-15", "15/03/2026", "not-a-date", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	h, m, err := ParseTimeOfDay("12:55")
	if err != nil {
		t.Fatalf("ParseTimeOfDay() failed: %v", err)
	}
	if h != 12 || m != 55 {
		t.Errorf("ParseTimeOfDay() = (%d, %d), want (12, 55)", h, m)
	}

	if _, _, err := ParseTimeOfDay("1255"); err == nil {
		t.Error("ParseTimeOfDay(\"1255\") should fail")
	}
}

func TestCombineDateAndTime(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	got := CombineDateAndTime(day, 7, 30)
	want := time.Date(2026, 3, 15, 7, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("CombineDateAndTime() = %v, want %v", got, want)
	}
}

func TestExpandDateRange(t *testing.T) {
	from := time.Date(2026, 3, 15, 9, 0, 0, 0, time.Local)
	to := time.Date(2026, 3, 17, 0, 0, 0, 0, time.Local)

	days := ExpandDateRange(from, to)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for i, d := range days {
		want := time.Date(2026, 3, 15+i, 0, 0, 0, 0, time.Local)
		if !d.Equal(want) {
			t.Errorf("day %d = %v, want %v", i, d, want)
		}
	}
}

func TestMidnight(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 59, 59, 999, time.Local)
	if got := Midnight(now); got.Hour() != 0 || got.Day() != 15 {
		t.Errorf("Midnight() = %v", got)
	}
}
