package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidTimeComponents is returned when a fire time's hour or minute falls
// outside the valid clock range.
var ErrInvalidTimeComponents = errors.New("fire time components out of range")

// FireTime is a recurring daily time-of-day at which a reminder should fire.
// It has no date component. Uniqueness is by (hour, minute) per habit.
type FireTime struct {
	ID      string `json:"id"`
	HabitID string `json:"habit_id"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
}

// TimeOfDay is a bare (hour, minute) pair, used as input when creating or
// replacing a habit's fire times.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidTimeComponents, t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("%w: minute %d", ErrInvalidTimeComponents, t.Minute)
	}
	return nil
}

// NewFireTime builds a validated FireTime for the given habit.
func NewFireTime(habitID string, hour, minute int) (FireTime, error) {
	if err := (TimeOfDay{Hour: hour, Minute: minute}).Validate(); err != nil {
		return FireTime{}, err
	}
	return FireTime{
		ID:      uuid.New().String(),
		HabitID: habitID,
		Hour:    hour,
		Minute:  minute,
	}, nil
}

func (f FireTime) Validate() error {
	return TimeOfDay{Hour: f.Hour, Minute: f.Minute}.Validate()
}

// String renders the fire time in HH:MM form.
func (f FireTime) String() string {
	return fmt.Sprintf("%02d:%02d", f.Hour, f.Minute)
}
