package study

import (
	"encoding/json"
	"fmt"

	"studyvault/internal/codec"
	"studyvault/internal/model"
)

// documentExport is the backup blob for documents: file records and
// their sessions.
type documentExport struct {
	Version  int                `json:"version"`
	Files    []model.FileRecord `json:"files"`
	Sessions []model.Session    `json:"sessions"`
}

// notesExport is the backup blob for the user-curated collections.
type notesExport struct {
	Version  int                      `json:"version"`
	Cards    []model.Flashcard        `json:"cards"`
	Concepts []model.KnowledgeConcept `json:"concepts"`
	Formulas []model.Formula          `json:"formulas"`
	MindMaps []model.MindMap          `json:"mindMaps,omitempty"`
}

// ExportAll serializes file records and sessions into a single blob for
// manual backup.
func (s *Service) ExportAll() (string, error) {
	blob, err := json.Marshal(documentExport{
		Version:  codec.SchemaVersion,
		Files:    s.Files(),
		Sessions: s.Sessions(),
	})
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	return string(blob), nil
}

// ImportAll replaces file records and sessions with the contents of a
// previously exported blob. The quota applies: an import that does not
// fit is rejected without partial writes of the imported collections.
func (s *Service) ImportAll(blob string) error {
	var export documentExport
	if err := json.Unmarshal([]byte(blob), &export); err != nil {
		return fmt.Errorf("decoding import blob: %w", err)
	}
	if export.Version > codec.SchemaVersion {
		return fmt.Errorf("import blob version %d is newer than supported version %d", export.Version, codec.SchemaVersion)
	}

	// Verify both collections fit before writing either.
	filesValue, err := codec.Encode(export.Files)
	if err != nil {
		return fmt.Errorf("encoding files: %w", err)
	}
	sessionsValue, err := codec.Encode(export.Sessions)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}

	usage, err := s.usageWith(keyFiles, filesValue)
	if err != nil {
		return err
	}
	current, ok, err := s.store.Get(keySessions)
	if err != nil {
		return fmt.Errorf("reading sessions: %w", err)
	}
	if ok {
		usage -= s.budget.EncodedLen(keySessions) + s.budget.EncodedLen(current)
	}
	usage += s.budget.EncodedLen(keySessions) + s.budget.EncodedLen(sessionsValue)
	if usage > s.budget.Quota() {
		return ErrStorageFull
	}

	if err := s.store.Set(keyFiles, filesValue); err != nil {
		return fmt.Errorf("writing files: %w", err)
	}
	if err := s.store.Set(keySessions, sessionsValue); err != nil {
		return fmt.Errorf("writing sessions: %w", err)
	}

	s.logger.Info("import complete", "files", len(export.Files), "sessions", len(export.Sessions))
	return nil
}

// ExportNotes serializes flashcards, concepts, and formulas into a
// single blob. These are exported separately from documents: they are
// long-lived and usually much smaller.
func (s *Service) ExportNotes() (string, error) {
	blob, err := json.Marshal(notesExport{
		Version:  codec.SchemaVersion,
		Cards:    s.Cards(),
		Concepts: s.Concepts(),
		Formulas: s.Formulas(),
		MindMaps: s.MindMaps(),
	})
	if err != nil {
		return "", fmt.Errorf("encoding notes export: %w", err)
	}
	return string(blob), nil
}

// ImportNotes replaces flashcards, concepts, and formulas with the
// contents of a previously exported blob. The quota applies: an import
// that does not fit is rejected without partial writes of the imported
// collections.
func (s *Service) ImportNotes(blob string) error {
	var export notesExport
	if err := json.Unmarshal([]byte(blob), &export); err != nil {
		return fmt.Errorf("decoding notes blob: %w", err)
	}
	if export.Version > codec.SchemaVersion {
		return fmt.Errorf("notes blob version %d is newer than supported version %d", export.Version, codec.SchemaVersion)
	}

	cardsValue, err := codec.Encode(export.Cards)
	if err != nil {
		return fmt.Errorf("encoding flashcards: %w", err)
	}
	conceptsValue, err := codec.Encode(export.Concepts)
	if err != nil {
		return fmt.Errorf("encoding concepts: %w", err)
	}
	formulasValue, err := codec.Encode(export.Formulas)
	if err != nil {
		return fmt.Errorf("encoding formulas: %w", err)
	}
	mindMapsValue, err := codec.Encode(export.MindMaps)
	if err != nil {
		return fmt.Errorf("encoding mind maps: %w", err)
	}
	pending := []struct {
		key   string
		value string
	}{
		{keyCards, cardsValue},
		{keyConcepts, conceptsValue},
		{keyFormulas, formulasValue},
		{keyMindMaps, mindMapsValue},
	}

	// Verify all four collections fit before writing any.
	usage, err := s.budget.Usage()
	if err != nil {
		return fmt.Errorf("measuring store usage: %w", err)
	}
	for _, p := range pending {
		current, ok, err := s.store.Get(p.key)
		if err != nil {
			return fmt.Errorf("reading key %q: %w", p.key, err)
		}
		if ok {
			usage -= s.budget.EncodedLen(p.key) + s.budget.EncodedLen(current)
		}
		usage += s.budget.EncodedLen(p.key) + s.budget.EncodedLen(p.value)
	}
	if usage > s.budget.Quota() {
		return ErrStorageFull
	}

	for _, p := range pending {
		if err := s.store.Set(p.key, p.value); err != nil {
			return fmt.Errorf("writing key %q: %w", p.key, err)
		}
	}

	s.logger.Info("notes import complete", "cards", len(export.Cards),
		"concepts", len(export.Concepts), "formulas", len(export.Formulas),
		"mindMaps", len(export.MindMaps))
	return nil
}
