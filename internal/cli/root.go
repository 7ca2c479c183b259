package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/ritual-app/ritual/internal/models"
	"github.com/ritual-app/ritual/internal/scheduler"
	"github.com/ritual-app/ritual/internal/storage"
	"github.com/ritual-app/ritual/internal/tracker"
	"github.com/ritual-app/ritual/internal/utils"
)

type Context struct {
	Store     storage.Provider
	Service   *tracker.Service
	Scheduler *scheduler.Scheduler
}

// ParseDateList expands a list of date items into concrete days. Each item is
// either a single YYYY-MM-DD date or an inclusive START..END range.
func ParseDateList(items []string) ([]time.Time, error) {
	var dates []time.Time
	for _, item := range items {
		item = strings.TrimSpace(item)
		if from, to, ok := strings.Cut(item, ".."); ok {
			start, err := utils.ParseDate(from)
			if err != nil {
				return nil, err
			}
			end, err := utils.ParseDate(to)
			if err != nil {
				return nil, err
			}
			if end.Before(start) {
				return nil, fmt.Errorf("range %q runs backwards", item)
			}
			dates = append(dates, utils.ExpandDateRange(start, end)...)
			continue
		}
		d, err := utils.ParseDate(item)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// ParseTimeList parses HH:MM items into validated times of day.
func ParseTimeList(items []string) ([]models.TimeOfDay, error) {
	var times []models.TimeOfDay
	for _, item := range items {
		hour, minute, err := utils.ParseTimeOfDay(strings.TrimSpace(item))
		if err != nil {
			return nil, err
		}
		tod := models.TimeOfDay{Hour: hour, Minute: minute}
		if err := tod.Validate(); err != nil {
			return nil, err
		}
		times = append(times, tod)
	}
	return times, nil
}
