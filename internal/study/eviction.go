package study

import (
	"fmt"
	"sort"

	"studyvault/internal/codec"
	"studyvault/internal/model"
)

// roomRequest describes a pending collection write that may need space
// freed before it fits.
//
// When the pending write is the sessions or files collection itself,
// sessions or files carries the live record list so evicted records
// drop out of the pending write too, instead of being resurrected when
// the pending value lands. keepSessionID protects the session being
// written; keepFileID protects the file a pending session or file
// write refers to from tier-2 eviction.
type roomRequest struct {
	key   string
	value string

	sessions      []model.Session
	files         []model.FileRecord
	keepSessionID string
	keepFileID    string
}

// writeWithRoom writes the request, evicting first when the write would
// exceed quota. On ErrStorageFull nothing from the pending request is
// written; evictions already performed stay (re-inserting them would
// leave the budget state inconsistent).
func (s *Service) writeWithRoom(req roomRequest) error {
	fits, err := s.fitsWith(req.key, req.value)
	if err != nil {
		return err
	}
	if fits {
		return s.store.Set(req.key, req.value)
	}

	value, err := s.makeRoom(req)
	if err != nil {
		return err
	}
	return s.store.Set(req.key, value)
}

// makeRoom applies the two-tier eviction policy until the pending write
// fits: (1) drop least-recently-updated sessions, (2) drop oldest file
// records, cascading each file's sessions. Flashcards, concepts,
// formulas, and mind maps are never evicted; they are small,
// user-curated, and exempt. Only explicit deletion removes them.
//
// Returns the (possibly re-encoded) pending value, or ErrStorageFull
// when the write does not fit even with both tiers exhausted.
func (s *Service) makeRoom(req roomRequest) (string, error) {
	before, err := s.usageWith(req.key, req.value)
	if err != nil {
		return "", err
	}

	sessions := req.sessions
	pendingIsSessions := sessions != nil
	if !pendingIsSessions {
		sessions = loadCollection[model.Session](s, keySessions)
	}
	sortSessionsByUpdated(sessions)

	value := req.value
	fits := false

	// Tier 1: sessions, oldest UpdatedAt first.
	droppedSessions := 0
	for !fits {
		idx := oldestEvictableSession(sessions, req.keepSessionID)
		if idx < 0 {
			break
		}
		evicted := sessions[idx]
		sessions = append(sessions[:idx], sessions[idx+1:]...)
		droppedSessions++
		s.logger.Debug("evicting session", "id", evicted.ID, "updatedAt", evicted.UpdatedAt)

		if value, err = s.flushTrimmed(sessions, pendingIsSessions, value); err != nil {
			return "", err
		}
		if fits, err = s.fitsWith(req.key, value); err != nil {
			return "", err
		}
	}

	// Tier 2: file records, oldest UploadedAt first, cascading their
	// sessions. When the pending write is the files collection, evicted
	// records are dropped from the pending value itself; writing the
	// untrimmed pending list afterwards would bring them back.
	droppedFiles := 0
	if !fits {
		files := req.files
		pendingIsFiles := files != nil
		if !pendingIsFiles {
			files = loadCollection[model.FileRecord](s, keyFiles)
		}
		sort.Slice(files, func(i, j int) bool {
			return files[i].UploadedAt.Before(files[j].UploadedAt)
		})

		for !fits {
			idx := oldestEvictableFile(files, req.keepFileID)
			if idx < 0 {
				break
			}
			evicted := files[idx]
			files = append(files[:idx], files[idx+1:]...)
			droppedFiles++
			s.logger.Debug("evicting file record", "id", evicted.ID, "uploadedAt", evicted.UploadedAt)

			sessions = removeSessionsForFile(sessions, evicted.ID, req.keepSessionID)

			encoded, err := codec.Encode(files)
			if err != nil {
				return "", fmt.Errorf("encoding trimmed files: %w", err)
			}
			if pendingIsFiles {
				value = encoded
			} else if err := s.store.Set(keyFiles, encoded); err != nil {
				return "", fmt.Errorf("writing trimmed files: %w", err)
			}

			if value, err = s.flushTrimmed(sessions, pendingIsSessions, value); err != nil {
				return "", err
			}
			if fits, err = s.fitsWith(req.key, value); err != nil {
				return "", err
			}
		}
	}

	after, err := s.usageWith(req.key, value)
	if err != nil {
		return "", err
	}
	s.logger.Info("eviction ran",
		"freedBytes", before-after,
		"sessionsDropped", droppedSessions,
		"filesDropped", droppedFiles)

	if !fits {
		return "", ErrStorageFull
	}
	return value, nil
}

// flushTrimmed propagates a trimmed session list: when the pending
// write is the sessions collection it is re-encoded as the new pending
// value, otherwise the trimmed collection is written out immediately
// and the current pending value is carried through unchanged.
func (s *Service) flushTrimmed(sessions []model.Session, pendingIsSessions bool, pending string) (string, error) {
	encoded, err := codec.Encode(sessions)
	if err != nil {
		return "", fmt.Errorf("encoding trimmed sessions: %w", err)
	}
	if pendingIsSessions {
		return encoded, nil
	}
	if err := s.store.Set(keySessions, encoded); err != nil {
		return "", fmt.Errorf("writing trimmed sessions: %w", err)
	}
	return pending, nil
}

// capSessions enforces the session soft cap on every save: the oldest
// sessions beyond the cap are dropped regardless of quota pressure.
// The protected session is never dropped.
func (s *Service) capSessions(sessions []model.Session, keepID string) []model.Session {
	if s.opts.SessionSoftCap <= 0 {
		return sessions
	}
	sortSessionsByUpdated(sessions)
	for len(sessions) > s.opts.SessionSoftCap {
		idx := oldestEvictableSession(sessions, keepID)
		if idx < 0 {
			break
		}
		s.logger.Debug("session cap exceeded, dropping oldest", "id", sessions[idx].ID)
		sessions = append(sessions[:idx], sessions[idx+1:]...)
	}
	return sessions
}

// capFiles enforces the file soft cap, cascading sessions of dropped
// files. Returns the capped files and the surviving sessions.
func (s *Service) capFiles(files []model.FileRecord, sessions []model.Session, keepID string) ([]model.FileRecord, []model.Session) {
	if s.opts.FileSoftCap <= 0 {
		return files, sessions
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.Before(files[j].UploadedAt)
	})
	for len(files) > s.opts.FileSoftCap {
		idx := oldestEvictableFile(files, keepID)
		if idx < 0 {
			break
		}
		s.logger.Debug("file cap exceeded, dropping oldest", "id", files[idx].ID)
		sessions = removeSessionsForFile(sessions, files[idx].ID, "")
		files = append(files[:idx], files[idx+1:]...)
	}
	return files, sessions
}

func sortSessionsByUpdated(sessions []model.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.Before(sessions[j].UpdatedAt)
	})
}

// oldestEvictableSession returns the index of the oldest session that
// is not protected, or -1 when none can be evicted.
func oldestEvictableSession(sessions []model.Session, keepID string) int {
	for i, sess := range sessions {
		if sess.ID != keepID {
			return i
		}
	}
	return -1
}

func oldestEvictableFile(files []model.FileRecord, keepID string) int {
	for i, f := range files {
		if f.ID != keepID {
			return i
		}
	}
	return -1
}

// removeSessionsForFile drops every session referencing fileID except
// the protected one.
func removeSessionsForFile(sessions []model.Session, fileID, keepID string) []model.Session {
	out := sessions[:0]
	for _, sess := range sessions {
		if sess.FileID == fileID && sess.ID != keepID {
			continue
		}
		out = append(out, sess)
	}
	return out
}
