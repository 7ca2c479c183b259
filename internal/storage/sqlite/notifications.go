package sqlite

import (
	"fmt"
	"time"

	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/storage"
)

func (s *Store) GetNotifications(habitID string) ([]models.Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, fire_time_id, external_id, fire_at, scheduled
		FROM notifications WHERE habit_id = ?
		ORDER BY fire_at`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ns []models.Notification
	for rows.Next() {
		var n models.Notification
		var fireAt string
		var scheduled int
		if err := rows.Scan(&n.ID, &n.HabitID, &n.FireTimeID, &n.ExternalID, &fireAt, &scheduled); err != nil {
			return nil, err
		}
		if n.FireAt, err = time.Parse(time.RFC3339, fireAt); err != nil {
			return nil, fmt.Errorf("failed to parse fire_at: %w", err)
		}
		n.Scheduled = scheduled != 0
		ns = append(ns, n)
	}
	return ns, rows.Err()
}

// MarkNotificationScheduled is the follow-up write issued from a notifier
// callback. It runs outside any transaction; the row may already be gone if
// a rebuild or deletion raced the callback, which is fine.
func (s *Store) MarkNotificationScheduled(id string, scheduled bool) error {
	res, err := s.db.Exec(`UPDATE notifications SET scheduled = ? WHERE id = ?`,
		boolToInt(scheduled), id)
	if err != nil {
		return fmt.Errorf("failed to mark notification scheduled: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
