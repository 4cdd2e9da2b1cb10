// Package sched implements the SM-2 spaced-repetition algorithm as a
// pure function over a card's scheduling state. It knows nothing about
// storage; the service layer persists its output.
package sched

import (
	"fmt"
	"math"
	"time"

	"studyvault/internal/model"
)

// MinEaseFactor is the floor below which a card's ease factor never
// drops, so a card cannot become infinitely hard and stall reviews.
const MinEaseFactor = 1.3

// Review applies one SM-2 review with the given rating (0..5) to the
// scheduling state and returns the successor state.
//
// Rating >= 3 means remembered: the repetition count advances and the
// interval grows (1 day, then 6, then interval * ease). Rating < 3
// means forgotten: repetitions and interval reset hard, no partial
// credit. The ease factor is adjusted in both branches and clamped at
// MinEaseFactor.
func Review(s model.Scheduling, rating int, now time.Time) (model.Scheduling, error) {
	if rating < 0 || rating > 5 {
		return s, fmt.Errorf("rating must be in 0..5, got %d", rating)
	}

	next := s

	q := float64(5 - rating)
	next.EaseFactor = s.EaseFactor + (0.1 - q*(0.08+q*0.02))
	if next.EaseFactor < MinEaseFactor {
		next.EaseFactor = MinEaseFactor
	}

	if rating >= 3 {
		switch s.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(s.IntervalDays) * next.EaseFactor))
		}
		next.Repetitions = s.Repetitions + 1
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
	}

	next.NextReviewAt = now.Add(time.Duration(next.IntervalDays) * 24 * time.Hour)
	reviewed := now
	next.LastReviewAt = &reviewed

	return next, nil
}

// Due returns the cards whose next review time has passed. The batch is
// unbounded and unordered beyond due-ness; presentation order is a
// caller concern.
func Due(cards []model.Flashcard, now time.Time) []model.Flashcard {
	var due []model.Flashcard
	for _, c := range cards {
		if !c.Scheduling.NextReviewAt.After(now) {
			due = append(due, c)
		}
	}
	return due
}
