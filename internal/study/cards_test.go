package study_test

import (
	"testing"
	"time"

	"studyvault/internal/model"
	"studyvault/internal/testutil"
)

func TestService_UpsertCard(t *testing.T) {
	t.Run("new cards start due immediately", func(t *testing.T) {
		svc, _, clock := testutil.NewTestService(t, testutil.ServiceOptions{})

		card, _, err := svc.UpsertCard(model.Flashcard{Front: "d/dx sin(x)?", Back: "cos(x)"})
		if err != nil {
			t.Fatalf("UpsertCard() error = %v", err)
		}
		if card.Scheduling.EaseFactor != 2.5 {
			t.Errorf("EaseFactor = %v, want 2.5", card.Scheduling.EaseFactor)
		}
		if card.Scheduling.Repetitions != 0 || card.Scheduling.IntervalDays != 0 {
			t.Errorf("Scheduling = %+v, want fresh state", card.Scheduling)
		}
		if !card.Scheduling.NextReviewAt.Equal(clock.Now()) {
			t.Errorf("NextReviewAt = %v, want %v", card.Scheduling.NextReviewAt, clock.Now())
		}

		due := svc.DueCards()
		if len(due) != 1 || due[0].ID != card.ID {
			t.Errorf("DueCards() = %+v, want the new card", due)
		}
	})

	t.Run("replacement keeps scheduling state", func(t *testing.T) {
		svc, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

		card, _, err := svc.UpsertCard(model.Flashcard{Front: "q", Back: "a"})
		if err != nil {
			t.Fatalf("UpsertCard() error = %v", err)
		}
		reviewed, err := svc.ReviewCard(card.ID, 5)
		if err != nil {
			t.Fatalf("ReviewCard() error = %v", err)
		}

		reviewed.Front = "q (edited)"
		edited, _, err := svc.UpsertCard(reviewed)
		if err != nil {
			t.Fatalf("UpsertCard() replace error = %v", err)
		}
		if edited.Scheduling.Repetitions != 1 {
			t.Errorf("Repetitions = %d after content edit, want 1", edited.Scheduling.Repetitions)
		}
	})
}

func TestService_ReviewCard(t *testing.T) {
	t.Run("persists the new scheduling state", func(t *testing.T) {
		svc, _, clock := testutil.NewTestService(t, testutil.ServiceOptions{})

		card, _, err := svc.UpsertCard(model.Flashcard{Front: "q", Back: "a"})
		if err != nil {
			t.Fatalf("UpsertCard() error = %v", err)
		}

		reviewed, err := svc.ReviewCard(card.ID, 4)
		if err != nil {
			t.Fatalf("ReviewCard() error = %v", err)
		}
		if reviewed.Scheduling.Repetitions != 1 || reviewed.Scheduling.IntervalDays != 1 {
			t.Errorf("Scheduling = %+v, want 1 repetition at 1 day", reviewed.Scheduling)
		}

		stored, ok := svc.CardByID(card.ID)
		if !ok {
			t.Fatal("CardByID() did not find reviewed card")
		}
		if stored.Scheduling.Repetitions != 1 || stored.Scheduling.IntervalDays != 1 {
			t.Errorf("stored Scheduling = %+v, want the reviewed state", stored.Scheduling)
		}
		if stored.Scheduling.LastReviewAt == nil || !stored.Scheduling.LastReviewAt.Equal(clock.Now()) {
			t.Errorf("LastReviewAt = %v, want %v", stored.Scheduling.LastReviewAt, clock.Now())
		}

		// A just-reviewed card is no longer due.
		if due := svc.DueCards(); len(due) != 0 {
			t.Errorf("DueCards() = %d cards after review, want 0", len(due))
		}

		clock.Advance(25 * time.Hour)
		if due := svc.DueCards(); len(due) != 1 {
			t.Errorf("DueCards() = %d cards after the interval passed, want 1", len(due))
		}
	})

	t.Run("rejects out-of-range ratings", func(t *testing.T) {
		svc, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

		card, _, err := svc.UpsertCard(model.Flashcard{Front: "q", Back: "a"})
		if err != nil {
			t.Fatalf("UpsertCard() error = %v", err)
		}

		if _, err := svc.ReviewCard(card.ID, 6); err == nil {
			t.Error("ReviewCard(rating 6) = nil error, want error")
		}
		if _, err := svc.ReviewCard(card.ID, -1); err == nil {
			t.Error("ReviewCard(rating -1) = nil error, want error")
		}

		stored, _ := svc.CardByID(card.ID)
		if stored.Scheduling.Repetitions != 0 {
			t.Errorf("Repetitions = %d after rejected reviews, want 0", stored.Scheduling.Repetitions)
		}
	})

	t.Run("unknown card", func(t *testing.T) {
		svc, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

		if _, err := svc.ReviewCard("no-such-card", 4); err == nil {
			t.Error("ReviewCard(absent) = nil error, want error")
		}
	})
}

func TestService_DeleteCard(t *testing.T) {
	svc, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

	card, _, err := svc.UpsertCard(model.Flashcard{Front: "q", Back: "a"})
	if err != nil {
		t.Fatalf("UpsertCard() error = %v", err)
	}
	if err := svc.DeleteCard(card.ID); err != nil {
		t.Fatalf("DeleteCard() error = %v", err)
	}
	if _, ok := svc.CardByID(card.ID); ok {
		t.Error("deleted card still present")
	}
	if err := svc.DeleteCard("no-such-card"); err != nil {
		t.Errorf("DeleteCard(absent) error = %v, want nil", err)
	}
}
