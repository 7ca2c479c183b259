package storage

import (
	"errors"

	"github.com/ritual-app/ritual/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDayExists is returned when registering a day for a date that is
	// already registered.
	ErrDayExists = errors.New("day already registered for date")
	// ErrChallengeOverlap is returned when an open challenge would share a
	// date with an existing open challenge of the same habit.
	ErrChallengeOverlap = errors.New("challenge overlaps an open challenge")
)

// Provider is the read side of the store plus transaction and lifecycle
// management. All writes happen through a Tx, with one exception:
// MarkNotificationScheduled is a standalone follow-up write issued from
// notifier callbacks after the owning transaction has long committed.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)

	// Day registry
	GetDayByDate(date string) (models.Day, error)

	// Challenges, loaded with days and offensives sorted by date
	GetChallenges(habitID string) ([]models.Challenge, error)

	// Fire times
	GetFireTimes(habitID string) ([]models.FireTime, error)
	ListFireTimes() ([]models.FireTime, error)

	// Notifications
	GetNotifications(habitID string) ([]models.Notification, error)
	MarkNotificationScheduled(id string, scheduled bool) error

	// Begin opens a write transaction.
	Begin() (Tx, error)

	// Utils
	GetConfigPath() string
}

// Tx is a unit of work over the store. Either Save commits everything or
// Rollback discards it; Rollback after a successful Save is a no-op, which
// makes `defer tx.Rollback()` safe.
type Tx interface {
	// Habits
	AddHabit(models.Habit) error
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// Day registry
	CreateDay(models.Day) error
	DeleteDay(id string) error

	// Challenges. SaveChallenge persists the header and rewrites the
	// challenge's days and offensives to match the aggregate.
	AddChallenge(models.Challenge) error
	SaveChallenge(models.Challenge) error
	DeleteChallenge(id string) error

	// Fire times
	ReplaceFireTimes(habitID string, fireTimes []models.FireTime) error

	// Notifications
	AddNotifications(ns []models.Notification) error
	DeleteNotifications(habitID string) error

	Save() error
	Rollback() error
}
