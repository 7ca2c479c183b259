package challenge

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ritual-app/ritual/internal/clock"
	"github.com/ritual-app/ritual/internal/models"
)

var (
	// ErrNoDates is returned when a challenge is created without any dates.
	ErrNoDates = errors.New("challenge requires at least one date")
	// ErrOutsideRange is returned when today falls outside the challenge's
	// date range and a current-day operation is attempted.
	ErrOutsideRange = errors.New("today is outside the challenge date range")
)

// Engine implements the date-range state machine over challenge aggregates.
// It is purely in-memory; callers persist the mutated aggregate afterwards.
type Engine struct {
	clock clock.Clock
}

func NewEngine(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

// New builds a challenge from the given dates. Dates are truncated to local
// midnight and deduplicated; FromDate/ToDate become the min/max. Any prior
// challenge of the habit is left untouched.
func New(habitID string, dates []time.Time) (*models.Challenge, error) {
	if len(dates) == 0 {
		return nil, ErrNoDates
	}

	uniq := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		uniq[clock.Midnight(d)] = struct{}{}
	}

	days := make([]models.HabitDay, 0, len(uniq))
	for d := range uniq {
		days = append(days, models.HabitDay{
			ID:   uuid.New().String(),
			Date: d,
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	ch := &models.Challenge{
		ID:       uuid.New().String(),
		HabitID:  habitID,
		FromDate: days[0].Date,
		ToDate:   days[len(days)-1].Date,
		Days:     days,
	}
	return ch, nil
}

// Current returns the habit's challenge whose range contains today, preferring
// an open one when a closed challenge covers the same date. Returns nil when
// no challenge matches.
func (e *Engine) Current(challenges []*models.Challenge) *models.Challenge {
	today := clock.Today(e.clock)

	var fallback *models.Challenge
	for _, ch := range challenges {
		if !ch.Contains(today) {
			continue
		}
		if !ch.Closed {
			return ch
		}
		if fallback == nil {
			fallback = ch
		}
	}
	return fallback
}

// CurrentDay returns today's HabitDay, or nil if the challenge has none.
func (e *Engine) CurrentDay(ch *models.Challenge) *models.HabitDay {
	return DayOn(ch, clock.Today(e.clock))
}

// DayOn returns the HabitDay whose date equals the truncated input date.
func DayOn(ch *models.Challenge, date time.Time) *models.HabitDay {
	date = clock.Midnight(date)
	for i := range ch.Days {
		if ch.Days[i].Date.Equal(date) {
			return &ch.Days[i]
		}
	}
	return nil
}

// PastDays returns the days strictly before today.
func (e *Engine) PastDays(ch *models.Challenge) []models.HabitDay {
	today := clock.Today(e.clock)
	var out []models.HabitDay
	for _, d := range ch.Days {
		if d.Date.Before(today) {
			out = append(out, d)
		}
	}
	return out
}

// FutureDays returns the days strictly after today.
func (e *Engine) FutureDays(ch *models.Challenge) []models.HabitDay {
	today := clock.Today(e.clock)
	var out []models.HabitDay
	for _, d := range ch.Days {
		if d.Date.After(today) {
			out = append(out, d)
		}
	}
	return out
}

// ExecutedDays returns the days that were marked executed.
func (e *Engine) ExecutedDays(ch *models.Challenge) []models.HabitDay {
	var out []models.HabitDay
	for _, d := range ch.Days {
		if d.Executed {
			out = append(out, d)
		}
	}
	return out
}

// MissedDays returns past days that were never executed.
func (e *Engine) MissedDays(ch *models.Challenge) []models.HabitDay {
	var out []models.HabitDay
	for _, d := range e.PastDays(ch) {
		if !d.Executed {
			out = append(out, d)
		}
	}
	return out
}

// Progress reports completion as (past, total). Total counts every day of the
// challenge. Past counts days strictly before today, plus today once it has
// been executed; a pending today contributes nothing.
func (e *Engine) Progress(ch *models.Challenge) (past, total int) {
	today := clock.Today(e.clock)
	total = len(ch.Days)
	for _, d := range ch.Days {
		switch {
		case d.Date.Before(today):
			past++
		case d.Date.Equal(today) && d.Executed:
			past++
		}
	}
	return past, total
}

// Order returns the 1-based rank of the day within the challenge sorted
// ascending by date, or 0 when the day is not a member.
func Order(ch *models.Challenge, day *models.HabitDay) int {
	if day == nil {
		return 0
	}
	for i := range ch.Days {
		if ch.Days[i].ID == day.ID {
			return i + 1
		}
	}
	return 0
}

// OrderText renders the day's rank as an ordinal phrase for reminder bodies,
// e.g. "This is the 3rd day of your challenge."
func OrderText(ch *models.Challenge, day *models.HabitDay) string {
	n := Order(ch, day)
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("This is the %s day of your challenge.", ordinal(n))
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// MarkCurrentDay sets today's execution flag, creating today's HabitDay when
// it is missing and today falls inside the range. Marking the final day
// executed closes the challenge; un-marking it reopens. The current offensive
// is updated to match.
func (e *Engine) MarkCurrentDay(ch *models.Challenge, executed bool) error {
	today := clock.Today(e.clock)

	day := DayOn(ch, today)
	if day == nil {
		if !ch.Contains(today) {
			return ErrOutsideRange
		}
		ch.Days = append(ch.Days, models.HabitDay{
			ID:   uuid.New().String(),
			Date: today,
		})
		sort.Slice(ch.Days, func(i, j int) bool { return ch.Days[i].Date.Before(ch.Days[j].Date) })
		day = DayOn(ch, today)
	}

	day.Executed = executed
	day.UpdatedAt = e.clock.Now()

	if today.Equal(ch.ToDate) {
		ch.Closed = executed
	}

	e.updateOffensive(ch, executed)
	return nil
}

// Close ends the challenge early: the range is cut back to yesterday, every
// day dated today or later is dropped, and the challenge is marked closed.
// Safe to call repeatedly and on challenges that already ended in the past.
func (e *Engine) Close(ch *models.Challenge) {
	today := clock.Today(e.clock)

	kept := ch.Days[:0]
	for _, d := range ch.Days {
		if d.Date.Before(today) {
			kept = append(kept, d)
		}
	}
	ch.Days = kept

	if !ch.ToDate.Before(today) {
		ch.ToDate = today.AddDate(0, 0, -1)
	}
	ch.Closed = true
}
