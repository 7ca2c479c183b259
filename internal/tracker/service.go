package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ritual-app/ritual/internal/challenge"
	"github.com/ritual-app/ritual/internal/clock"
	"github.com/ritual-app/ritual/internal/constants"
	"github.com/ritual-app/ritual/internal/fanout"
	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/notify"
	"github.com/ritual-app/ritual/internal/scheduler"
	"github.com/ritual-app/ritual/internal/storage"
	"github.com/ritual-app/ritual/internal/utils"
)

// ErrNoActiveChallenge is returned by operations that need a challenge
// containing today when the habit has none.
var ErrNoActiveChallenge = errors.New("habit has no active challenge")

// Service is the application facade: it owns the transaction boundaries and
// the ordering between persistence and reminder scheduling. Reminder
// submission always happens after the owning transaction commits.
type Service struct {
	store  storage.Provider
	clk    clock.Clock
	engine *challenge.Engine
	sched  *scheduler.Scheduler
}

func New(store storage.Provider, clk clock.Clock, sched *scheduler.Scheduler) *Service {
	return &Service{
		store:  store,
		clk:    clk,
		engine: challenge.NewEngine(clk),
		sched:  sched,
	}
}

// EditOptions carries the optional fields of an edit. Nil pointers and nil
// slices mean "leave unchanged".
type EditOptions struct {
	Name      *string
	Color     *string
	Dates     []time.Time
	FireTimes []models.TimeOfDay
}

// CreateHabit registers a habit with its first challenge and fire times, then
// schedules the future reminder instants.
func (s *Service) CreateHabit(name, color string, dates []time.Time, times []models.TimeOfDay) (models.Habit, error) {
	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		CreatedAt: s.clk.Now(),
	}
	if err := habit.Validate(); err != nil {
		return models.Habit{}, err
	}
	if _, err := s.store.GetHabitByName(name); err == nil {
		return models.Habit{}, fmt.Errorf("habit %q already exists", name)
	}

	ch, err := challenge.New(habit.ID, dates)
	if err != nil {
		return models.Habit{}, err
	}

	fireTimes, err := buildFireTimes(habit.ID, times)
	if err != nil {
		return models.Habit{}, err
	}

	plan := fanout.Plan(habit.ID, ch.Days, fireTimes, s.clk.Now())

	tx, err := s.store.Begin()
	if err != nil {
		return models.Habit{}, err
	}
	defer tx.Rollback()

	if err := tx.AddHabit(habit); err != nil {
		return models.Habit{}, err
	}
	if err := s.ensureDays(tx, ch); err != nil {
		return models.Habit{}, err
	}
	if err := tx.AddChallenge(*ch); err != nil {
		return models.Habit{}, err
	}
	if err := tx.ReplaceFireTimes(habit.ID, fireTimes); err != nil {
		return models.Habit{}, err
	}
	if err := tx.AddNotifications(plan); err != nil {
		return models.Habit{}, err
	}
	if err := tx.Save(); err != nil {
		return models.Habit{}, err
	}

	s.sched.Schedule(plan, s.contentFor(habit, ch))
	return habit, nil
}

// EditHabit applies the requested changes. A new date set closes the current
// challenge and opens a fresh one; any change to name, dates, or fire times
// rebuilds the habit's reminder set from scratch.
func (s *Service) EditHabit(id string, opts EditOptions) error {
	habit, err := s.store.GetHabit(id)
	if err != nil {
		return err
	}

	needsRebuild := opts.Dates != nil || opts.FireTimes != nil
	if opts.Name != nil && *opts.Name != habit.Name {
		habit.Name = *opts.Name
		needsRebuild = true
	}
	if opts.Color != nil {
		habit.Color = *opts.Color
	}
	if err := habit.Validate(); err != nil {
		return err
	}

	challenges, err := s.loadChallenges(id)
	if err != nil {
		return err
	}

	var fireTimes []models.FireTime
	if opts.FireTimes != nil {
		if fireTimes, err = buildFireTimes(id, opts.FireTimes); err != nil {
			return err
		}
	}

	// Day edits never mutate the running challenge: the old one is closed
	// where it stands and a new one takes over.
	var closed, opened *models.Challenge
	if opts.Dates != nil {
		if opened, err = challenge.New(id, opts.Dates); err != nil {
			return err
		}
		if closed = s.engine.Current(challenges); closed != nil && !closed.Closed {
			s.engine.Close(closed)
		} else {
			closed = nil
		}
		for _, existing := range challenges {
			if existing == closed || existing.Closed {
				continue
			}
			if existing.Overlaps(opened) {
				return storage.ErrChallengeOverlap
			}
		}
	}

	tx, err := s.store.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.UpdateHabit(habit); err != nil {
		return err
	}
	if closed != nil {
		if err := tx.SaveChallenge(*closed); err != nil {
			return err
		}
	}
	if opened != nil {
		if err := s.ensureDays(tx, opened); err != nil {
			return err
		}
		if err := tx.AddChallenge(*opened); err != nil {
			return err
		}
	}
	if opts.FireTimes != nil {
		if err := tx.ReplaceFireTimes(id, fireTimes); err != nil {
			return err
		}
	}
	if err := tx.Save(); err != nil {
		return err
	}

	if needsRebuild {
		return s.Rebuild(id)
	}
	return nil
}

// DeleteHabit withdraws every pending reminder, then removes the habit and
// everything hanging off it in one transaction.
func (s *Service) DeleteHabit(id string) error {
	if _, err := s.store.GetHabit(id); err != nil {
		return err
	}

	ns, err := s.store.GetNotifications(id)
	if err != nil {
		return err
	}
	s.sched.Unschedule(ns)

	tx, err := s.store.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.DeleteHabit(id); err != nil {
		return err
	}
	return tx.Save()
}

// MarkToday flips today's execution flag on the habit's active challenge.
func (s *Service) MarkToday(id string, executed bool) error {
	ch, err := s.currentChallenge(id)
	if err != nil {
		return err
	}
	if err := s.engine.MarkCurrentDay(ch, executed); err != nil {
		return err
	}

	tx, err := s.store.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.ensureDays(tx, ch); err != nil {
		return err
	}
	if err := tx.SaveChallenge(*ch); err != nil {
		return err
	}
	return tx.Save()
}

// Progress reports (past, total) for the habit's active challenge.
func (s *Service) Progress(id string) (past, total int, err error) {
	ch, err := s.currentChallenge(id)
	if err != nil {
		return 0, 0, err
	}
	past, total = s.engine.Progress(ch)
	return past, total, nil
}

// StreakStatus returns the active challenge's current offensive, or nil when
// the streak is broken or never started.
func (s *Service) StreakStatus(id string) (*models.Offensive, error) {
	ch, err := s.currentChallenge(id)
	if err != nil {
		return nil, err
	}
	return s.engine.CurrentOffensive(ch), nil
}

// DayOrderText renders today's ordinal sentence for the habit's active
// challenge, or "" when today is not a member day.
func (s *Service) DayOrderText(id string) (string, error) {
	return s.DayOrderTextOn(id, clock.Today(s.clk))
}

// DayOrderTextOn renders the ordinal sentence for an arbitrary date within the
// habit's active challenge.
func (s *Service) DayOrderTextOn(id string, date time.Time) (string, error) {
	ch, err := s.currentChallenge(id)
	if err != nil {
		return "", err
	}
	return challenge.OrderText(ch, challenge.DayOn(ch, date)), nil
}

// Rebuild tears down the habit's entire reminder set and recreates it from
// the active challenge and the current fire times. Destructive on purpose:
// the rebuilt set is the only source of truth, so running it twice in a row
// is harmless.
func (s *Service) Rebuild(id string) error {
	habit, err := s.store.GetHabit(id)
	if err != nil {
		return err
	}

	old, err := s.store.GetNotifications(id)
	if err != nil {
		return err
	}
	s.sched.Unschedule(old)

	challenges, err := s.loadChallenges(id)
	if err != nil {
		return err
	}

	fireTimes, err := s.store.GetFireTimes(id)
	if err != nil {
		return err
	}

	// Every open challenge contributes its future instants: the one running
	// today and any scheduled entirely ahead of it.
	type batch struct {
		ch *models.Challenge
		ns []models.Notification
	}
	var plan []models.Notification
	var batches []batch
	for _, ch := range challenges {
		if ch.Closed {
			continue
		}
		ns := fanout.Plan(id, ch.Days, fireTimes, s.clk.Now())
		if len(ns) == 0 {
			continue
		}
		plan = append(plan, ns...)
		batches = append(batches, batch{ch: ch, ns: ns})
	}

	tx, err := s.store.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.DeleteNotifications(id); err != nil {
		return err
	}
	if err := tx.AddNotifications(plan); err != nil {
		return err
	}
	if err := tx.Save(); err != nil {
		return err
	}

	for _, b := range batches {
		s.sched.Schedule(b.ns, s.contentFor(habit, b.ch))
	}
	return nil
}

// Flush waits for in-flight reminder submissions to settle.
func (s *Service) Flush() {
	s.sched.Flush()
}

func (s *Service) loadChallenges(habitID string) ([]*models.Challenge, error) {
	stored, err := s.store.GetChallenges(habitID)
	if err != nil {
		return nil, err
	}
	challenges := make([]*models.Challenge, len(stored))
	for i := range stored {
		challenges[i] = &stored[i]
	}
	return challenges, nil
}

func (s *Service) currentChallenge(habitID string) (*models.Challenge, error) {
	if _, err := s.store.GetHabit(habitID); err != nil {
		return nil, err
	}
	challenges, err := s.loadChallenges(habitID)
	if err != nil {
		return nil, err
	}
	ch := s.engine.Current(challenges)
	if ch == nil {
		return nil, ErrNoActiveChallenge
	}
	return ch, nil
}

// ensureDays backfills the canonical day registry for every day of the
// challenge and records each day's registry id. The lookup and the insert are
// separate statements; the UNIQUE index on date settles any race in favor of
// the first writer.
func (s *Service) ensureDays(tx storage.Tx, ch *models.Challenge) error {
	for i := range ch.Days {
		if ch.Days[i].DayID != "" {
			continue
		}
		date := utils.FormatDate(ch.Days[i].Date)
		day, err := s.store.GetDayByDate(date)
		if errors.Is(err, storage.ErrNotFound) {
			day = models.Day{ID: uuid.New().String(), Date: ch.Days[i].Date}
			if err := tx.CreateDay(day); errors.Is(err, storage.ErrDayExists) {
				// Lost the race; take the winner's record.
				if day, err = s.store.GetDayByDate(date); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		ch.Days[i].DayID = day.ID
	}
	return nil
}

func (s *Service) contentFor(habit models.Habit, ch *models.Challenge) scheduler.ContentFunc {
	return func(n models.Notification) notify.Content {
		day := challenge.DayOn(ch, n.FireAt)
		return notify.Content{
			Title:    habit.Name,
			Subtitle: constants.ReminderPrompt,
			Body:     challenge.OrderText(ch, day),
			Tag:      habit.ID,
		}
	}
}

func buildFireTimes(habitID string, times []models.TimeOfDay) ([]models.FireTime, error) {
	seen := make(map[models.TimeOfDay]struct{}, len(times))
	var fireTimes []models.FireTime
	for _, tod := range times {
		if _, dup := seen[tod]; dup {
			continue
		}
		seen[tod] = struct{}{}
		ft, err := models.NewFireTime(habitID, tod.Hour, tod.Minute)
		if err != nil {
			return nil, err
		}
		fireTimes = append(fireTimes, ft)
	}
	return fireTimes, nil
}
