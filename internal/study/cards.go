package study

import (
	"fmt"

	"studyvault/internal/model"
	"studyvault/internal/sched"
)

// Cards returns all flashcards. Reads never fail outward.
func (s *Service) Cards() []model.Flashcard {
	cards := loadCollection[model.Flashcard](s, keyCards)
	for i := range cards {
		cards[i] = cards[i].Clone()
	}
	return cards
}

// CardByID returns the flashcard with the given ID.
func (s *Service) CardByID(id string) (model.Flashcard, bool) {
	for _, c := range loadCollection[model.Flashcard](s, keyCards) {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return model.Flashcard{}, false
}

// UpsertCard creates or replaces a flashcard. New cards get fresh
// scheduling state (due immediately). Flashcards are exempt from
// eviction; only this kind of explicit mutation touches them.
func (s *Service) UpsertCard(card model.Flashcard) (model.Flashcard, UpsertResult, error) {
	now := s.clock.Now()
	card = card.Clone()
	if card.ID == "" {
		card.ID = s.idgen.New()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	if card.Scheduling.EaseFactor == 0 {
		card.Scheduling = model.NewScheduling(now)
	}

	cards := loadCollection[model.Flashcard](s, keyCards)
	replaced := false
	for i, c := range cards {
		if c.ID == card.ID {
			cards[i] = card
			replaced = true
			break
		}
	}
	if !replaced {
		cards = append(cards, card)
	}

	level, err := saveCollection(s, keyCards, cards)
	if err != nil {
		return model.Flashcard{}, UpsertResult{}, err
	}

	s.logger.Info("flashcard saved", "id", card.ID)
	return card.Clone(), UpsertResult{Level: level}, nil
}

// DeleteCard removes a flashcard by ID. Absent IDs are a no-op.
func (s *Service) DeleteCard(id string) error {
	cards := loadCollection[model.Flashcard](s, keyCards)
	kept := cards[:0]
	for _, c := range cards {
		if c.ID == id {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == len(cards) {
		return nil
	}
	if _, err := saveCollection(s, keyCards, kept); err != nil {
		return fmt.Errorf("saving flashcards: %w", err)
	}
	s.logger.Info("flashcard deleted", "id", id)
	return nil
}

// DueCards returns every card whose next review time has passed. The
// batch is unbounded; presentation order is the caller's concern.
func (s *Service) DueCards() []model.Flashcard {
	return sched.Due(s.Cards(), s.clock.Now())
}

// ReviewCard applies one SM-2 review with the given rating (0..5) to a
// card and persists the new scheduling state. Scheduling fields are
// mutated only here; all other card mutation goes through UpsertCard.
func (s *Service) ReviewCard(id string, rating int) (model.Flashcard, error) {
	cards := loadCollection[model.Flashcard](s, keyCards)
	for i, c := range cards {
		if c.ID != id {
			continue
		}

		now := s.clock.Now()
		next, err := sched.Review(c.Scheduling, rating, now)
		if err != nil {
			return model.Flashcard{}, err
		}
		cards[i].Scheduling = next
		cards[i].UpdatedAt = now

		if _, err := saveCollection(s, keyCards, cards); err != nil {
			return model.Flashcard{}, err
		}

		s.logger.Info("flashcard reviewed", "id", id, "rating", rating,
			"intervalDays", next.IntervalDays, "repetitions", next.Repetitions)
		return cards[i].Clone(), nil
	}
	return model.Flashcard{}, fmt.Errorf("flashcard not found: %s", id)
}
