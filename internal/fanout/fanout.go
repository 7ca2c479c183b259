package fanout

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ritual-app/ritual/internal/models"
)

// Instants expands the cross product of habit days and fire times into
// concrete fire instants, keeping only those strictly in the future relative
// to now. The result is sorted ascending.
func Instants(days []models.HabitDay, fireTimes []models.FireTime, now time.Time) []time.Time {
	var out []time.Time
	for _, d := range days {
		for _, ft := range fireTimes {
			at := time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(),
				ft.Hour, ft.Minute, 0, 0, d.Date.Location())
			if at.After(now) {
				out = append(out, at)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Plan derives the full replacement notification set for a habit: one
// notification per retained future instant, each with a freshly generated
// external identifier and Scheduled false. The previous set is expected to be
// torn down wholesale; nothing here diffs against it.
func Plan(habitID string, days []models.HabitDay, fireTimes []models.FireTime, now time.Time) []models.Notification {
	var out []models.Notification
	for _, ft := range fireTimes {
		for _, d := range days {
			at := time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(),
				ft.Hour, ft.Minute, 0, 0, d.Date.Location())
			if !at.After(now) {
				continue
			}
			out = append(out, models.Notification{
				ID:         uuid.New().String(),
				HabitID:    habitID,
				FireTimeID: ft.ID,
				ExternalID: uuid.New().String(),
				FireAt:     at,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}
