package cli

import (
	"errors"
	"testing"

	"github.com/ritual-app/ritual/internal/models"
)

func TestParseDateListSinglesAndRanges(t *testing.T) {
	dates, err := ParseDateList([]string{"2026-03-15", "2026-03-20..2026-03-22"})
	if err != nil {
		t.Fatalf("ParseDateList() failed: %v", err)
	}
	if len(dates) != 4 {
		t.Fatalf("expected 4 dates, got %d", len(dates))
	}
	if dates[0].Day() != 15 || dates[1].Day() != 20 || dates[3].Day() != 22 {
		t.Errorf("unexpected expansion: %v", dates)
	}
}

func TestParseDateListRejectsBackwardsRange(t *testing.T) {
	if _, err := ParseDateList([]string{"2026-03-22..2026-03-20"}); err == nil {
		t.Error("backwards range should fail")
	}
}

func TestParseDateListRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"soon", "2026-03", "2026-03-15..nope"} {
		if _, err := ParseDateList([]string{bad}); err == nil {
			t.Errorf("ParseDateList(%q) should fail", bad)
		}
	}
}

func TestParseTimeList(t *testing.T) {
	times, err := ParseTimeList([]string{"07:30", "21:00"})
	if err != nil {
		t.Fatalf("ParseTimeList() failed: %v", err)
	}
	if len(times) != 2 || times[0].Hour != 7 || times[1].Minute != 0 {
		t.Errorf("unexpected times: %v", times)
	}
}

func TestParseTimeListRejectsOutOfRange(t *testing.T) {
	_, err := ParseTimeList([]string{"24:00"})
	if !errors.Is(err, models.ErrInvalidTimeComponents) {
		t.Errorf("expected ErrInvalidTimeComponents, got %v", err)
	}
}
