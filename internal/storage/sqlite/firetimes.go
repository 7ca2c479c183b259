package sqlite

import (
	"database/sql"

	"github.com/ritual-app/ritual/internal/models"
)

func scanFireTimes(rows *sql.Rows) ([]models.FireTime, error) {
	defer rows.Close()

	var fireTimes []models.FireTime
	for rows.Next() {
		var f models.FireTime
		if err := rows.Scan(&f.ID, &f.HabitID, &f.Hour, &f.Minute); err != nil {
			return nil, err
		}
		fireTimes = append(fireTimes, f)
	}
	return fireTimes, rows.Err()
}

func (s *Store) GetFireTimes(habitID string) ([]models.FireTime, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, hour, minute
		FROM fire_times WHERE habit_id = ?
		ORDER BY hour, minute`, habitID)
	if err != nil {
		return nil, err
	}
	return scanFireTimes(rows)
}

// ListFireTimes returns every habit's fire times sorted by time of day.
func (s *Store) ListFireTimes() ([]models.FireTime, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, hour, minute
		FROM fire_times
		ORDER BY hour, minute, habit_id`)
	if err != nil {
		return nil, err
	}
	return scanFireTimes(rows)
}
