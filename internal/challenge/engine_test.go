package challenge

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ritual-app/ritual/internal/clock"
	"github.com/ritual-app/ritual/internal/models"
)

var testNow = time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)

// challengeAt builds a challenge whose days sit at the given offsets (in days)
// from the fixed clock's today.
func challengeAt(t *testing.T, clk clock.Clock, offsets ...int) *models.Challenge {
	t.Helper()

	today := clock.Today(clk)
	dates := make([]time.Time, 0, len(offsets))
	for _, off := range offsets {
		dates = append(dates, today.AddDate(0, 0, off))
	}

	ch, err := New(uuid.New().String(), dates)
	if err != nil {
		t.Fatalf("failed to create challenge: %v", err)
	}
	return ch
}

func TestNewRequiresDates(t *testing.T) {
	if _, err := New(uuid.New().String(), nil); err != ErrNoDates {
		t.Errorf("expected ErrNoDates, got %v", err)
	}
}

func TestNewDeduplicatesAndSorts(t *testing.T) {
	d1 := time.Date(2026, 3, 17, 9, 0, 0, 0, time.Local)
	d2 := time.Date(2026, 3, 15, 22, 0, 0, 0, time.Local)
	d2dup := time.Date(2026, 3, 15, 6, 0, 0, 0, time.Local)

	ch, err := New(uuid.New().String(), []time.Time{d1, d2, d2dup})
	if err != nil {
		t.Fatalf("failed to create challenge: %v", err)
	}

	if len(ch.Days) != 2 {
		t.Fatalf("expected 2 days after dedup, got %d", len(ch.Days))
	}
	if !ch.Days[0].Date.Before(ch.Days[1].Date) {
		t.Error("expected days sorted ascending by date")
	}
	if !ch.FromDate.Equal(clock.Midnight(d2)) || !ch.ToDate.Equal(clock.Midnight(d1)) {
		t.Errorf("expected range [%v, %v], got [%v, %v]",
			clock.Midnight(d2), clock.Midnight(d1), ch.FromDate, ch.ToDate)
	}
}

func TestProgressTotalEqualsDayCount(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, -3, -2, -1, 0, 1, 2)
	_, total := eng.Progress(ch)
	if total != len(ch.Days) {
		t.Errorf("expected total %d, got %d", len(ch.Days), total)
	}
}

func TestProgressPendingTodayNotCounted(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, -2, -1, 0, 1)
	past, total := eng.Progress(ch)
	if past != 2 || total != 4 {
		t.Errorf("expected (2, 4), got (%d, %d)", past, total)
	}

	if err := eng.MarkCurrentDay(ch, true); err != nil {
		t.Fatalf("failed to mark current day: %v", err)
	}
	past, _ = eng.Progress(ch)
	if past != 3 {
		t.Errorf("expected past 3 after executing today, got %d", past)
	}
}

func TestProgressExecutedTodayCounts(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, -2, 0, 1)
	if err := eng.MarkCurrentDay(ch, true); err != nil {
		t.Fatalf("failed to mark current day: %v", err)
	}

	past, total := eng.Progress(ch)
	if past != 2 || total != 3 {
		t.Errorf("expected (2, 3), got (%d, %d)", past, total)
	}
}

func TestDayPartitions(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, -2, -1, 0, 1, 2)
	if err := eng.MarkCurrentDay(ch, true); err != nil {
		t.Fatalf("failed to mark current day: %v", err)
	}

	if got := len(eng.PastDays(ch)); got != 2 {
		t.Errorf("expected 2 past days, got %d", got)
	}
	if got := len(eng.FutureDays(ch)); got != 2 {
		t.Errorf("expected 2 future days, got %d", got)
	}
	if got := len(eng.ExecutedDays(ch)); got != 1 {
		t.Errorf("expected 1 executed day, got %d", got)
	}
	if got := len(eng.MissedDays(ch)); got != 2 {
		t.Errorf("expected 2 missed days, got %d", got)
	}
}

func TestCurrentDay(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, -1, 0, 1)
	day := eng.CurrentDay(ch)
	if day == nil {
		t.Fatal("expected a current day")
	}
	if !day.Date.Equal(clock.Today(clk)) {
		t.Errorf("expected date %v, got %v", clock.Today(clk), day.Date)
	}

	gap := challengeAt(t, clk, -2, -1, 1)
	if eng.CurrentDay(gap) != nil {
		t.Error("expected nil current day when today is not a member")
	}
}

func TestOrder(t *testing.T) {
	clk := clock.NewFixed(testNow)

	ch := challengeAt(t, clk, 0, 1, 2, 3)
	for i := range ch.Days {
		if got := Order(ch, &ch.Days[i]); got != i+1 {
			t.Errorf("expected order %d for day %d, got %d", i+1, i, got)
		}
	}

	stranger := models.HabitDay{ID: uuid.New().String(), Date: clock.Today(clk)}
	if got := Order(ch, &stranger); got != 0 {
		t.Errorf("expected order 0 for non-member day, got %d", got)
	}
}

func TestOrderText(t *testing.T) {
	clk := clock.NewFixed(testNow)

	ch := challengeAt(t, clk, 0, 1, 2, 3, 4)
	wants := []string{"1st", "2nd", "3rd", "4th", "5th"}
	for i, want := range wants {
		text := OrderText(ch, &ch.Days[i])
		if !strings.Contains(text, want) {
			t.Errorf("expected order text for day %d to contain %q, got %q", i, want, text)
		}
	}
}

func TestMarkFinalDayClosesAndReopens(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, -2, -1, 0)
	if err := eng.MarkCurrentDay(ch, true); err != nil {
		t.Fatalf("failed to mark current day: %v", err)
	}
	if !ch.Closed {
		t.Error("expected challenge closed after executing its final day")
	}

	if err := eng.MarkCurrentDay(ch, false); err != nil {
		t.Fatalf("failed to unmark current day: %v", err)
	}
	if ch.Closed {
		t.Error("expected challenge reopened after un-executing its final day")
	}
}

func TestMarkCreatesMissingDayInsideRange(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	// Range covers today but today itself is not a member yet.
	ch := challengeAt(t, clk, -1, 1)
	if err := eng.MarkCurrentDay(ch, true); err != nil {
		t.Fatalf("failed to mark current day: %v", err)
	}

	day := eng.CurrentDay(ch)
	if day == nil || !day.Executed {
		t.Fatal("expected today's day to exist and be executed")
	}
	if len(ch.Days) != 3 {
		t.Errorf("expected 3 days after lazy creation, got %d", len(ch.Days))
	}
	// Ordering must survive the insertion.
	if Order(ch, day) != 2 {
		t.Errorf("expected today at order 2, got %d", Order(ch, day))
	}
}

func TestMarkOutsideRange(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, 1, 2)
	if err := eng.MarkCurrentDay(ch, true); err != ErrOutsideRange {
		t.Errorf("expected ErrOutsideRange, got %v", err)
	}
}

func TestCloseDropsFutureDays(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)
	today := clock.Today(clk)

	ch := challengeAt(t, clk, -2, -1, 0, 1, 2)
	eng.Close(ch)

	if !ch.Closed {
		t.Error("expected challenge closed")
	}
	if !ch.ToDate.Equal(today.AddDate(0, 0, -1)) {
		t.Errorf("expected to_date yesterday, got %v", ch.ToDate)
	}
	for _, d := range ch.Days {
		if !d.Date.Before(today) {
			t.Errorf("expected no day on/after today, found %v", d.Date)
		}
	}
	if len(ch.Days) != 2 {
		t.Errorf("expected 2 remaining days, got %d", len(ch.Days))
	}

	// Idempotent.
	eng.Close(ch)
	if len(ch.Days) != 2 || !ch.ToDate.Equal(today.AddDate(0, 0, -1)) || !ch.Closed {
		t.Error("expected second close to be a no-op")
	}
}

func TestClosePastEndedChallenge(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	ch := challengeAt(t, clk, -5, -4, -3)
	before := ch.ToDate
	eng.Close(ch)

	if !ch.ToDate.Equal(before) {
		t.Errorf("expected to_date untouched for past-ended challenge, got %v", ch.ToDate)
	}
	if !ch.Closed {
		t.Error("expected challenge closed")
	}
	if len(ch.Days) != 3 {
		t.Errorf("expected all 3 past days kept, got %d", len(ch.Days))
	}
}

func TestCurrentPrefersOpenChallenge(t *testing.T) {
	clk := clock.NewFixed(testNow)
	eng := NewEngine(clk)

	closed := challengeAt(t, clk, -1, 0, 1)
	closed.Closed = true
	open := challengeAt(t, clk, 0, 1, 2)

	got := eng.Current([]*models.Challenge{closed, open})
	if got != open {
		t.Error("expected the open challenge to win")
	}

	if eng.Current([]*models.Challenge{closed}) != closed {
		t.Error("expected the closed challenge as fallback when it is the only match")
	}

	past := challengeAt(t, clk, -3, -2)
	if eng.Current([]*models.Challenge{past}) != nil {
		t.Error("expected nil when no challenge contains today")
	}
}
