package study_test

import (
	"testing"

	"studyvault/internal/model"
	"studyvault/internal/testutil"
)

func TestService_UpsertMindMap(t *testing.T) {
	t.Run("creates and reads back", func(t *testing.T) {
		svc, _, clock := testutil.NewTestService(t, testutil.ServiceOptions{})

		mm, _, err := svc.UpsertMindMap(model.MindMap{
			Title: "Derivatives",
			Nodes: []model.MindMapNode{
				{ID: "n1", Label: "Derivatives"},
				{ID: "n2", Label: "Chain rule", ParentID: "n1"},
				{ID: "n3", Label: "Product rule", ParentID: "n1"},
			},
		})
		if err != nil {
			t.Fatalf("UpsertMindMap() error = %v", err)
		}
		if mm.ID != "id-1" {
			t.Errorf("ID = %q, want id-1", mm.ID)
		}
		if !mm.CreatedAt.Equal(clock.Now()) {
			t.Errorf("CreatedAt = %v, want %v", mm.CreatedAt, clock.Now())
		}

		got, ok := svc.MindMapByID(mm.ID)
		if !ok {
			t.Fatal("MindMapByID() did not find saved map")
		}
		if got.Title != "Derivatives" || len(got.Nodes) != 3 {
			t.Errorf("MindMapByID() = %+v", got)
		}
		if got.Nodes[1].ParentID != "n1" {
			t.Errorf("node parent = %q, want n1", got.Nodes[1].ParentID)
		}
	})

	t.Run("replaces by id", func(t *testing.T) {
		svc, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

		mm, _, err := svc.UpsertMindMap(model.MindMap{Title: "Draft"})
		if err != nil {
			t.Fatalf("UpsertMindMap() error = %v", err)
		}
		mm.Title = "Final"
		if _, _, err := svc.UpsertMindMap(mm); err != nil {
			t.Fatalf("UpsertMindMap() replace error = %v", err)
		}

		maps := svc.MindMaps()
		if len(maps) != 1 {
			t.Fatalf("MindMaps() = %d records, want 1", len(maps))
		}
		if maps[0].Title != "Final" {
			t.Errorf("Title = %q, want Final", maps[0].Title)
		}
	})
}

func TestService_DeleteMindMap(t *testing.T) {
	svc, _, _ := testutil.NewTestService(t, testutil.ServiceOptions{})

	mm, _, err := svc.UpsertMindMap(model.MindMap{Title: "Derivatives"})
	if err != nil {
		t.Fatalf("UpsertMindMap() error = %v", err)
	}
	if err := svc.DeleteMindMap(mm.ID); err != nil {
		t.Fatalf("DeleteMindMap() error = %v", err)
	}
	if _, ok := svc.MindMapByID(mm.ID); ok {
		t.Error("deleted mind map still present")
	}
	if err := svc.DeleteMindMap("no-such-id"); err != nil {
		t.Errorf("DeleteMindMap(absent) error = %v, want nil", err)
	}
}
