package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/storage"
	"github.com/ritual-app/ritual/internal/utils"
)

// GetDayByDate looks up the canonical day record for a YYYY-MM-DD date.
func (s *Store) GetDayByDate(date string) (models.Day, error) {
	row := s.db.QueryRow(`SELECT id, date FROM days WHERE date = ?`, date)

	var d models.Day
	var dateStr string
	if err := row.Scan(&d.ID, &dateStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Day{}, storage.ErrNotFound
		}
		return models.Day{}, err
	}

	parsed, err := utils.ParseDate(dateStr)
	if err != nil {
		return models.Day{}, fmt.Errorf("failed to parse day date: %w", err)
	}
	d.Date = parsed
	return d, nil
}
