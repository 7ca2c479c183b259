package models

import (
	"fmt"
	"time"
)

// Challenge is one contiguous commitment period for a habit: a date range
// [FromDate, ToDate] with one HabitDay per participating date. A habit has at
// most one open challenge containing today; open challenges never overlap.
// Past challenges are closed, never mutated.
type Challenge struct {
	ID         string      `json:"id"`
	HabitID    string      `json:"habit_id"`
	FromDate   time.Time   `json:"from_date"`
	ToDate     time.Time   `json:"to_date"`
	Closed     bool        `json:"closed"`
	Days       []HabitDay  `json:"days"` // sorted ascending by date
	Offensives []Offensive `json:"offensives,omitempty"`
}

func (c *Challenge) Validate() error {
	if len(c.Days) == 0 {
		return fmt.Errorf("challenge must have at least one day")
	}
	if c.ToDate.Before(c.FromDate) {
		return fmt.Errorf("challenge to_date %s precedes from_date %s",
			c.ToDate.Format("2006-01-02"), c.FromDate.Format("2006-01-02"))
	}
	return nil
}

// Contains reports whether the given date (already truncated to midnight)
// falls inside the challenge's range, inclusive on both ends.
func (c *Challenge) Contains(date time.Time) bool {
	return !date.Before(c.FromDate) && !date.After(c.ToDate)
}

// Overlaps reports whether two challenge ranges share at least one date.
func (c *Challenge) Overlaps(other *Challenge) bool {
	return !c.FromDate.After(other.ToDate) && !other.FromDate.After(c.ToDate)
}

// Offensive is a maximal unbroken run of consecutively executed days. It stays
// "current" only while its ToDate touches today or yesterday; older runs
// remain as history.
type Offensive struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	FromDate    time.Time `json:"from_date"`
	ToDate      time.Time `json:"to_date"`
}

// Length returns the number of days covered by the offensive.
func (o *Offensive) Length() int {
	return int(o.ToDate.Sub(o.FromDate).Hours()/24) + 1
}
