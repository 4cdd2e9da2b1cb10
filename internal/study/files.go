package study

import (
	"fmt"

	"studyvault/internal/codec"
	"studyvault/internal/model"
)

// Files returns all file records. Reads never fail outward.
func (s *Service) Files() []model.FileRecord {
	return loadCollection[model.FileRecord](s, keyFiles)
}

// FileByID returns the file record with the given ID.
func (s *Service) FileByID(id string) (model.FileRecord, bool) {
	for _, f := range s.Files() {
		if f.ID == id {
			return f, true
		}
	}
	return model.FileRecord{}, false
}

// UpsertFile creates or replaces a file record. A missing ID or
// UploadedAt is filled in. The file soft cap is enforced on every save;
// dropped files cascade to their sessions.
func (s *Service) UpsertFile(file model.FileRecord) (model.FileRecord, UpsertResult, error) {
	now := s.clock.Now()
	if file.ID == "" {
		file.ID = s.idgen.New()
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = now
	}

	files := s.Files()
	replaced := false
	for i, f := range files {
		if f.ID == file.ID {
			files[i] = file
			replaced = true
			break
		}
	}
	if !replaced {
		files = append(files, file)
	}

	sessions := loadCollection[model.Session](s, keySessions)
	sessionCount := len(sessions)
	files, sessions = s.capFiles(files, sessions, file.ID)
	if len(sessions) != sessionCount {
		if _, err := saveCollection(s, keySessions, sessions); err != nil {
			return model.FileRecord{}, UpsertResult{}, fmt.Errorf("saving cascaded sessions: %w", err)
		}
	}

	value, err := codec.Encode(files)
	if err != nil {
		return model.FileRecord{}, UpsertResult{}, fmt.Errorf("encoding files: %w", err)
	}
	if err := s.writeWithRoom(roomRequest{key: keyFiles, value: value, files: files, keepFileID: file.ID}); err != nil {
		return model.FileRecord{}, UpsertResult{}, err
	}

	s.logger.Info("file record saved", "id", file.ID, "name", file.Name)
	return file, UpsertResult{Level: s.classifyAfterWrite(keyFiles)}, nil
}

// DeleteFile removes a file record and cascades to exactly the sessions
// referencing it. Flashcards, concepts, and formulas that cite the file
// keep their dangling SourceFileID: they outlive the source document.
func (s *Service) DeleteFile(id string) error {
	files := s.Files()
	kept := files[:0]
	found := false
	for _, f := range files {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	if !found {
		// Deleting an absent record is a no-op.
		return nil
	}

	if _, err := saveCollection(s, keyFiles, kept); err != nil {
		return fmt.Errorf("saving files: %w", err)
	}

	sessions := loadCollection[model.Session](s, keySessions)
	remaining := removeSessionsForFile(sessions, id, "")
	if len(remaining) != len(sessions) {
		if _, err := saveCollection(s, keySessions, remaining); err != nil {
			return fmt.Errorf("cascading session delete: %w", err)
		}
	}

	s.logger.Info("file record deleted", "id", id, "cascadedSessions", len(sessions)-len(remaining))
	return nil
}
