package sqlite

import (
	"fmt"
	"time"

	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/utils"
)

// GetChallenges loads a habit's challenges oldest-first, each with its days
// and offensives sorted ascending by date.
func (s *Store) GetChallenges(habitID string) ([]models.Challenge, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, from_date, to_date, closed
		FROM challenges WHERE habit_id = ?
		ORDER BY from_date`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		var c models.Challenge
		var fromStr, toStr string
		var closed int
		if err := rows.Scan(&c.ID, &c.HabitID, &fromStr, &toStr, &closed); err != nil {
			return nil, err
		}
		if c.FromDate, err = utils.ParseDate(fromStr); err != nil {
			return nil, fmt.Errorf("failed to parse challenge from_date: %w", err)
		}
		if c.ToDate, err = utils.ParseDate(toStr); err != nil {
			return nil, fmt.Errorf("failed to parse challenge to_date: %w", err)
		}
		c.Closed = closed != 0
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range challenges {
		if challenges[i].Days, err = s.getChallengeDays(challenges[i].ID); err != nil {
			return nil, err
		}
		if challenges[i].Offensives, err = s.getChallengeOffensives(challenges[i].ID); err != nil {
			return nil, err
		}
	}
	return challenges, nil
}

func (s *Store) getChallengeDays(challengeID string) ([]models.HabitDay, error) {
	rows, err := s.db.Query(`
		SELECT id, day_id, date, executed, updated_at
		FROM habit_days WHERE challenge_id = ?
		ORDER BY date`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.HabitDay
	for rows.Next() {
		var d models.HabitDay
		var dateStr, updatedAt string
		var executed int
		if err := rows.Scan(&d.ID, &d.DayID, &dateStr, &executed, &updatedAt); err != nil {
			return nil, err
		}
		if d.Date, err = utils.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse habit day date: %w", err)
		}
		if d.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse habit day updated_at: %w", err)
		}
		d.Executed = executed != 0
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Store) getChallengeOffensives(challengeID string) ([]models.Offensive, error) {
	rows, err := s.db.Query(`
		SELECT id, challenge_id, from_date, to_date
		FROM offensives WHERE challenge_id = ?
		ORDER BY from_date`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offensives []models.Offensive
	for rows.Next() {
		var o models.Offensive
		var fromStr, toStr string
		if err := rows.Scan(&o.ID, &o.ChallengeID, &fromStr, &toStr); err != nil {
			return nil, err
		}
		if o.FromDate, err = utils.ParseDate(fromStr); err != nil {
			return nil, fmt.Errorf("failed to parse offensive from_date: %w", err)
		}
		if o.ToDate, err = utils.ParseDate(toStr); err != nil {
			return nil, fmt.Errorf("failed to parse offensive to_date: %w", err)
		}
		offensives = append(offensives, o)
	}
	return offensives, rows.Err()
}
