package challenge

import (
	"github.com/google/uuid"

	"github.com/ritual-app/ritual/internal/clock"
	"github.com/ritual-app/ritual/internal/models"
)

// CurrentOffensive returns the challenge's live streak: the offensive whose
// ToDate equals today or yesterday. Broken streaks stay on the challenge as
// history but are never returned here. Returns nil for an empty challenge or
// when every streak has gone stale.
func (e *Engine) CurrentOffensive(ch *models.Challenge) *models.Offensive {
	if len(ch.Days) == 0 {
		return nil
	}

	today := clock.Today(e.clock)
	yesterday := today.AddDate(0, 0, -1)

	for i := range ch.Offensives {
		o := &ch.Offensives[i]
		if o.ToDate.Equal(today) || o.ToDate.Equal(yesterday) {
			return o
		}
	}
	return nil
}

// updateOffensive keeps the streak records in step with today's execution
// flag. Executing today extends the live streak to today, or starts a fresh
// single-day one. Un-executing retracts a streak that had already been
// extended to today, so a mark/unmark round trip leaves no phantom streak.
func (e *Engine) updateOffensive(ch *models.Challenge, executed bool) {
	today := clock.Today(e.clock)

	if executed {
		if cur := e.CurrentOffensive(ch); cur != nil {
			if cur.ToDate.Before(today) {
				cur.ToDate = today
			}
			return
		}
		ch.Offensives = append(ch.Offensives, models.Offensive{
			ID:          uuid.New().String(),
			ChallengeID: ch.ID,
			FromDate:    today,
			ToDate:      today,
		})
		return
	}

	for i := range ch.Offensives {
		o := &ch.Offensives[i]
		if !o.ToDate.Equal(today) {
			continue
		}
		if o.FromDate.Equal(today) {
			ch.Offensives = append(ch.Offensives[:i], ch.Offensives[i+1:]...)
		} else {
			o.ToDate = today.AddDate(0, 0, -1)
		}
		return
	}
}
