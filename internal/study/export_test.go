package study_test

import (
	"errors"
	"testing"

	"studyvault/internal/model"
	"studyvault/internal/study"
	"studyvault/internal/testutil"
)

func TestService_ExportImportDocuments(t *testing.T) {
	t.Run("round trips files and sessions", func(t *testing.T) {
		src, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

		file, _, err := src.UpsertFile(model.FileRecord{Name: "calculus.pdf", PageCount: 3})
		if err != nil {
			t.Fatalf("UpsertFile() error = %v", err)
		}
		sess, _, err := src.UpsertSession(model.Session{
			FileID:   file.ID,
			FileName: file.Name,
			Messages: []model.Message{{Role: model.RoleUser, Text: "explain limits"}},
		})
		if err != nil {
			t.Fatalf("UpsertSession() error = %v", err)
		}

		blob, err := src.ExportAll()
		if err != nil {
			t.Fatalf("ExportAll() error = %v", err)
		}

		dst, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})
		if err := dst.ImportAll(blob); err != nil {
			t.Fatalf("ImportAll() error = %v", err)
		}

		gotFile, ok := dst.FileByID(file.ID)
		if !ok {
			t.Fatal("imported file not found")
		}
		if gotFile.Name != "calculus.pdf" || gotFile.PageCount != 3 {
			t.Errorf("imported file = %+v", gotFile)
		}
		gotSess, ok := dst.SessionByID(sess.ID)
		if !ok {
			t.Fatal("imported session not found")
		}
		if gotSess.Messages[0].Text != "explain limits" {
			t.Errorf("imported session = %+v", gotSess)
		}
	})

	t.Run("replaces existing documents", func(t *testing.T) {
		src, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})
		blob, err := src.ExportAll()
		if err != nil {
			t.Fatalf("ExportAll() error = %v", err)
		}

		dst, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})
		if _, _, err := dst.UpsertFile(model.FileRecord{Name: "stale.pdf"}); err != nil {
			t.Fatalf("UpsertFile() error = %v", err)
		}
		if err := dst.ImportAll(blob); err != nil {
			t.Fatalf("ImportAll() error = %v", err)
		}
		if files := dst.Files(); len(files) != 0 {
			t.Errorf("Files() = %d records after importing an empty export, want 0", len(files))
		}
	})

	t.Run("rejects an import that does not fit", func(t *testing.T) {
		src, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})
		if _, _, err := src.UpsertSession(model.Session{
			FileID: "file-1",
			Pages:  []model.Page{{Number: 1, Text: bigText(10_000)}},
		}); err != nil {
			t.Fatalf("UpsertSession() error = %v", err)
		}
		blob, err := src.ExportAll()
		if err != nil {
			t.Fatalf("ExportAll() error = %v", err)
		}

		dst, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{Quota: 5_000})
		if err := dst.ImportAll(blob); !errors.Is(err, study.ErrStorageFull) {
			t.Fatalf("ImportAll() error = %v, want ErrStorageFull", err)
		}
		stats, err := dst.Stats()
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if stats.FileCount != 0 || stats.SessionCount != 0 {
			t.Errorf("partial import: stats = %+v, want nothing written", stats)
		}
	})

	t.Run("rejects malformed blobs", func(t *testing.T) {
		dst, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

		if err := dst.ImportAll("{not json"); err == nil {
			t.Error("ImportAll(malformed) = nil error, want error")
		}
		if err := dst.ImportAll(`{"version":99,"files":[],"sessions":[]}`); err == nil {
			t.Error("ImportAll(newer version) = nil error, want error")
		}
	})
}

func TestService_ExportImportNotes(t *testing.T) {
	src, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

	card, _, err := src.UpsertCard(model.Flashcard{Front: "q", Back: "a", Tags: []string{"calculus"}})
	if err != nil {
		t.Fatalf("UpsertCard() error = %v", err)
	}
	concept, _, err := src.UpsertConcept(model.KnowledgeConcept{Title: "Chain rule", Importance: model.ImportanceHigh})
	if err != nil {
		t.Fatalf("UpsertConcept() error = %v", err)
	}
	formula, _, err := src.UpsertFormula(model.Formula{LaTeX: "a^2+b^2=c^2", Name: "Pythagoras"})
	if err != nil {
		t.Fatalf("UpsertFormula() error = %v", err)
	}
	mindMap, _, err := src.UpsertMindMap(model.MindMap{Title: "Geometry", Nodes: []model.MindMapNode{{ID: "n1", Label: "Geometry"}}})
	if err != nil {
		t.Fatalf("UpsertMindMap() error = %v", err)
	}

	blob, err := src.ExportNotes()
	if err != nil {
		t.Fatalf("ExportNotes() error = %v", err)
	}

	dst, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})
	if err := dst.ImportNotes(blob); err != nil {
		t.Fatalf("ImportNotes() error = %v", err)
	}

	if _, ok := dst.CardByID(card.ID); !ok {
		t.Error("imported card not found")
	}
	got, ok := dst.ConceptByID(concept.ID)
	if !ok {
		t.Fatal("imported concept not found")
	}
	if got.Importance != model.ImportanceHigh {
		t.Errorf("imported concept importance = %q, want high", got.Importance)
	}
	if _, ok := dst.FormulaByID(formula.ID); !ok {
		t.Error("imported formula not found")
	}
	if _, ok := dst.MindMapByID(mindMap.ID); !ok {
		t.Error("imported mind map not found")
	}

	if err := dst.ImportNotes("{not json"); err == nil {
		t.Error("ImportNotes(malformed) = nil error, want error")
	}
}

func TestService_ImportNotesRejectedWritesNothing(t *testing.T) {
	// The cards in the blob would fit on their own; the concepts push
	// the import past quota. Nothing may be written, not even the
	// collections that individually fit.
	src, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})
	if _, _, err := src.UpsertCard(model.Flashcard{Front: "q", Back: "a"}); err != nil {
		t.Fatalf("UpsertCard() error = %v", err)
	}
	if _, _, err := src.UpsertConcept(model.KnowledgeConcept{
		Title:      "Chain rule",
		Definition: bigText(10_000),
	}); err != nil {
		t.Fatalf("UpsertConcept() error = %v", err)
	}
	blob, err := src.ExportNotes()
	if err != nil {
		t.Fatalf("ExportNotes() error = %v", err)
	}

	dst, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{Quota: 6_000})
	if _, _, err := dst.UpsertCard(model.Flashcard{ID: "keep-1", Front: "keep", Back: "me"}); err != nil {
		t.Fatalf("UpsertCard() error = %v", err)
	}

	if err := dst.ImportNotes(blob); !errors.Is(err, study.ErrStorageFull) {
		t.Fatalf("ImportNotes() error = %v, want ErrStorageFull", err)
	}

	cards := dst.Cards()
	if len(cards) != 1 || cards[0].ID != "keep-1" {
		t.Errorf("Cards() = %+v after rejected import, want only the pre-existing card", cards)
	}
	if concepts := dst.Concepts(); len(concepts) != 0 {
		t.Errorf("Concepts() = %d records after rejected import, want 0", len(concepts))
	}
}
