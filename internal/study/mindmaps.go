package study

import (
	"fmt"

	"studyvault/internal/model"
)

// MindMaps returns all mind maps. Reads never fail outward.
func (s *Service) MindMaps() []model.MindMap {
	maps := loadCollection[model.MindMap](s, keyMindMaps)
	for i := range maps {
		maps[i] = maps[i].Clone()
	}
	return maps
}

// MindMapByID returns the mind map with the given ID.
func (s *Service) MindMapByID(id string) (model.MindMap, bool) {
	for _, m := range loadCollection[model.MindMap](s, keyMindMaps) {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return model.MindMap{}, false
}

// UpsertMindMap creates or replaces a mind map. Mind maps are exempt
// from eviction, like the other note collections.
func (s *Service) UpsertMindMap(mm model.MindMap) (model.MindMap, UpsertResult, error) {
	now := s.clock.Now()
	mm = mm.Clone()
	if mm.ID == "" {
		mm.ID = s.idgen.New()
	}
	if mm.CreatedAt.IsZero() {
		mm.CreatedAt = now
	}
	mm.UpdatedAt = now

	maps := loadCollection[model.MindMap](s, keyMindMaps)
	replaced := false
	for i, m := range maps {
		if m.ID == mm.ID {
			maps[i] = mm
			replaced = true
			break
		}
	}
	if !replaced {
		maps = append(maps, mm)
	}

	level, err := saveCollection(s, keyMindMaps, maps)
	if err != nil {
		return model.MindMap{}, UpsertResult{}, err
	}

	s.logger.Info("mind map saved", "id", mm.ID, "title", mm.Title, "nodes", len(mm.Nodes))
	return mm.Clone(), UpsertResult{Level: level}, nil
}

// DeleteMindMap removes a mind map by ID. Absent IDs are a no-op.
func (s *Service) DeleteMindMap(id string) error {
	maps := loadCollection[model.MindMap](s, keyMindMaps)
	kept := maps[:0]
	for _, m := range maps {
		if m.ID == id {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == len(maps) {
		return nil
	}
	if _, err := saveCollection(s, keyMindMaps, kept); err != nil {
		return fmt.Errorf("saving mind maps: %w", err)
	}
	s.logger.Info("mind map deleted", "id", id)
	return nil
}
