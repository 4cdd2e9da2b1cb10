package study

import (
	"fmt"

	"studyvault/internal/model"
	"studyvault/internal/retrieval"
)

// Concepts returns all knowledge concepts. Reads never fail outward.
func (s *Service) Concepts() []model.KnowledgeConcept {
	concepts := loadCollection[model.KnowledgeConcept](s, keyConcepts)
	for i := range concepts {
		concepts[i] = concepts[i].Clone()
	}
	return concepts
}

// ConceptByID returns the concept with the given ID.
func (s *Service) ConceptByID(id string) (model.KnowledgeConcept, bool) {
	for _, c := range loadCollection[model.KnowledgeConcept](s, keyConcepts) {
		if c.ID == id {
			return c.Clone(), true
		}
	}
	return model.KnowledgeConcept{}, false
}

// UpsertConcept creates or replaces a knowledge concept. Concepts are
// exempt from eviction.
func (s *Service) UpsertConcept(concept model.KnowledgeConcept) (model.KnowledgeConcept, UpsertResult, error) {
	now := s.clock.Now()
	concept = concept.Clone()
	if concept.ID == "" {
		concept.ID = s.idgen.New()
	}
	if concept.CreatedAt.IsZero() {
		concept.CreatedAt = now
	}
	if concept.Importance == "" {
		concept.Importance = model.ImportanceMedium
	}
	concept.UpdatedAt = now

	concepts := loadCollection[model.KnowledgeConcept](s, keyConcepts)
	replaced := false
	for i, c := range concepts {
		if c.ID == concept.ID {
			concepts[i] = concept
			replaced = true
			break
		}
	}
	if !replaced {
		concepts = append(concepts, concept)
	}

	level, err := saveCollection(s, keyConcepts, concepts)
	if err != nil {
		return model.KnowledgeConcept{}, UpsertResult{}, err
	}

	s.logger.Info("concept saved", "id", concept.ID, "title", concept.Title)
	return concept.Clone(), UpsertResult{Level: level}, nil
}

// DeleteConcept removes a concept by ID. Absent IDs are a no-op.
func (s *Service) DeleteConcept(id string) error {
	concepts := loadCollection[model.KnowledgeConcept](s, keyConcepts)
	kept := concepts[:0]
	for _, c := range concepts {
		if c.ID == id {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == len(concepts) {
		return nil
	}
	if _, err := saveCollection(s, keyConcepts, kept); err != nil {
		return fmt.Errorf("saving concepts: %w", err)
	}
	s.logger.Info("concept deleted", "id", id)
	return nil
}

// SearchConcepts returns the top-k concepts ranked by relevance to the
// query, for prompt augmentation. Deterministic term-overlap ranking;
// zero-scoring concepts are excluded.
func (s *Service) SearchConcepts(query string, k int) []model.KnowledgeConcept {
	return retrieval.Concepts(s.Concepts(), query, k)
}
