package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/storage"
	"github.com/ritual-app/ritual/internal/utils"
)

// Tx is a sqlite write transaction implementing storage.Tx.
type Tx struct {
	tx   *sql.Tx
	done bool
}

func (t *Tx) Save() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.done = true
	return nil
}

func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

func (t *Tx) AddHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	_, err := t.tx.Exec(`
		INSERT INTO habits (id, name, color, created_at)
		VALUES (?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Color, habit.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (t *Tx) UpdateHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}
	res, err := t.tx.Exec(`
		UPDATE habits SET name = ?, color = ? WHERE id = ?`,
		habit.Name, habit.Color, habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteHabit removes a habit; challenges, habit days, offensives, fire times
// and notifications go with it via ON DELETE CASCADE.
func (t *Tx) DeleteHabit(id string) error {
	res, err := t.tx.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateDay registers a canonical day record. The UNIQUE index on date makes
// registration first-writer-wins; a duplicate surfaces as ErrDayExists.
func (t *Tx) CreateDay(day models.Day) error {
	_, err := t.tx.Exec(`INSERT INTO days (id, date) VALUES (?, ?)`,
		day.ID, utils.FormatDate(day.Date))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDayExists
		}
		return fmt.Errorf("failed to create day: %w", err)
	}
	return nil
}

func (t *Tx) DeleteDay(id string) error {
	if _, err := t.tx.Exec(`DELETE FROM days WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete day: %w", err)
	}
	return nil
}

func (t *Tx) AddChallenge(c models.Challenge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := t.tx.Exec(`
		INSERT INTO challenges (id, habit_id, from_date, to_date, closed)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.HabitID, utils.FormatDate(c.FromDate), utils.FormatDate(c.ToDate),
		boolToInt(c.Closed))
	if err != nil {
		return fmt.Errorf("failed to add challenge: %w", err)
	}
	if err := t.writeChallengeDays(c); err != nil {
		return err
	}
	return t.writeChallengeOffensives(c)
}

// SaveChallenge persists the aggregate: header update plus a full rewrite of
// the challenge's days and offensives. Rewriting keeps the row set and the
// in-memory aggregate trivially in sync.
func (t *Tx) SaveChallenge(c models.Challenge) error {
	res, err := t.tx.Exec(`
		UPDATE challenges SET from_date = ?, to_date = ?, closed = ?
		WHERE id = ?`,
		utils.FormatDate(c.FromDate), utils.FormatDate(c.ToDate),
		boolToInt(c.Closed), c.ID)
	if err != nil {
		return fmt.Errorf("failed to save challenge: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := t.tx.Exec(`DELETE FROM habit_days WHERE challenge_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear challenge days: %w", err)
	}
	if _, err := t.tx.Exec(`DELETE FROM offensives WHERE challenge_id = ?`, c.ID); err != nil {
		return fmt.Errorf("failed to clear challenge offensives: %w", err)
	}
	if err := t.writeChallengeDays(c); err != nil {
		return err
	}
	return t.writeChallengeOffensives(c)
}

func (t *Tx) DeleteChallenge(id string) error {
	res, err := t.tx.Exec(`DELETE FROM challenges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *Tx) writeChallengeDays(c models.Challenge) error {
	for _, d := range c.Days {
		_, err := t.tx.Exec(`
			INSERT INTO habit_days (id, challenge_id, day_id, date, executed, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, c.ID, d.DayID, utils.FormatDate(d.Date),
			boolToInt(d.Executed), d.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to write habit day %s: %w", utils.FormatDate(d.Date), err)
		}
	}
	return nil
}

func (t *Tx) writeChallengeOffensives(c models.Challenge) error {
	for _, o := range c.Offensives {
		_, err := t.tx.Exec(`
			INSERT INTO offensives (id, challenge_id, from_date, to_date)
			VALUES (?, ?, ?, ?)`,
			o.ID, c.ID, utils.FormatDate(o.FromDate), utils.FormatDate(o.ToDate))
		if err != nil {
			return fmt.Errorf("failed to write offensive: %w", err)
		}
	}
	return nil
}

// ReplaceFireTimes swaps a habit's fire time set wholesale. Input is assumed
// deduped by (hour, minute); the UNIQUE index backstops that assumption.
func (t *Tx) ReplaceFireTimes(habitID string, fireTimes []models.FireTime) error {
	if _, err := t.tx.Exec(`DELETE FROM fire_times WHERE habit_id = ?`, habitID); err != nil {
		return fmt.Errorf("failed to clear fire times: %w", err)
	}
	for _, f := range fireTimes {
		if err := f.Validate(); err != nil {
			return err
		}
		_, err := t.tx.Exec(`
			INSERT INTO fire_times (id, habit_id, hour, minute)
			VALUES (?, ?, ?, ?)`,
			f.ID, habitID, f.Hour, f.Minute)
		if err != nil {
			return fmt.Errorf("failed to write fire time %s: %w", f.String(), err)
		}
	}
	return nil
}

func (t *Tx) AddNotifications(ns []models.Notification) error {
	for _, n := range ns {
		_, err := t.tx.Exec(`
			INSERT INTO notifications (id, habit_id, fire_time_id, external_id, fire_at, scheduled)
			VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, n.HabitID, n.FireTimeID, n.ExternalID,
			n.FireAt.Format(time.RFC3339), boolToInt(n.Scheduled))
		if err != nil {
			return fmt.Errorf("failed to write notification: %w", err)
		}
	}
	return nil
}

func (t *Tx) DeleteNotifications(habitID string) error {
	if _, err := t.tx.Exec(`DELETE FROM notifications WHERE habit_id = ?`, habitID); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}
