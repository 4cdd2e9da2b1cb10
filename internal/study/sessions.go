package study

import (
	"fmt"

	"studyvault/internal/codec"
	"studyvault/internal/model"
)

// Sessions returns all stored sessions. Reads never fail outward.
func (s *Service) Sessions() []model.Session {
	sessions := loadCollection[model.Session](s, keySessions)
	for i := range sessions {
		sessions[i] = sessions[i].Clone()
	}
	return sessions
}

// SessionByID returns the session with the given ID.
func (s *Service) SessionByID(id string) (model.Session, bool) {
	for _, sess := range loadCollection[model.Session](s, keySessions) {
		if sess.ID == id {
			return sess.Clone(), true
		}
	}
	return model.Session{}, false
}

// SessionByFileID returns the current session for a file. At most one
// session per file is current; upserts are keyed by FileID.
func (s *Service) SessionByFileID(fileID string) (model.Session, bool) {
	for _, sess := range loadCollection[model.Session](s, keySessions) {
		if sess.FileID == fileID {
			return sess.Clone(), true
		}
	}
	return model.Session{}, false
}

// UpsertSession saves a session, replacing any existing session for the
// same FileID. Embedded images are compacted to their budgets first;
// the session soft cap and quota are enforced with eviction as needed.
// A successful save clears the autosave snapshot; the authoritative
// record supersedes the advisory one.
func (s *Service) UpsertSession(sess model.Session) (model.Session, UpsertResult, error) {
	if sess.FileID == "" {
		return model.Session{}, UpsertResult{}, fmt.Errorf("session has no file ID")
	}

	now := s.clock.Now()
	sess = sess.Clone()
	sess.UpdatedAt = now

	degraded := s.compactSessionImages(&sess)

	sessions := loadCollection[model.Session](s, keySessions)
	replaced := false
	for i, existing := range sessions {
		if existing.FileID == sess.FileID {
			// Keep the stored identity: the session for a file is
			// replaced in place, not duplicated.
			if sess.ID == "" {
				sess.ID = existing.ID
			}
			if sess.CreatedAt.IsZero() {
				sess.CreatedAt = existing.CreatedAt
			}
			sessions[i] = sess
			replaced = true
			break
		}
	}
	if !replaced {
		if sess.ID == "" {
			sess.ID = s.idgen.New()
		}
		if sess.CreatedAt.IsZero() {
			sess.CreatedAt = now
		}
		sessions = append(sessions, sess)
	}

	sessions = s.capSessions(sessions, sess.ID)

	value, err := codec.Encode(sessions)
	if err != nil {
		return model.Session{}, UpsertResult{}, fmt.Errorf("encoding sessions: %w", err)
	}
	err = s.writeWithRoom(roomRequest{
		key:           keySessions,
		value:         value,
		sessions:      sessions,
		keepSessionID: sess.ID,
		keepFileID:    sess.FileID,
	})
	if err != nil {
		return model.Session{}, UpsertResult{}, err
	}

	if err := s.ClearSnapshot(); err != nil {
		s.logger.Debug("clearing autosave snapshot", "error", err)
	}

	s.logger.Info("session saved", "id", sess.ID, "fileId", sess.FileID,
		"messages", len(sess.Messages), "pages", len(sess.Pages))
	return sess.Clone(), UpsertResult{Level: s.classifyAfterWrite(keySessions), Degraded: degraded}, nil
}

// DeleteSession removes a session by ID. Absent IDs are a no-op.
func (s *Service) DeleteSession(id string) error {
	sessions := loadCollection[model.Session](s, keySessions)
	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.ID == id {
			continue
		}
		kept = append(kept, sess)
	}
	if len(kept) == len(sessions) {
		return nil
	}
	if _, err := saveCollection(s, keySessions, kept); err != nil {
		return fmt.Errorf("saving sessions: %w", err)
	}
	s.logger.Info("session deleted", "id", id)
	return nil
}

// compactSessionImages applies the two compaction budgets: page
// previews get the larger budget, chat attachments the smaller one with
// a per-message count cap. Reports whether anything was degraded or
// dropped. Compaction never blocks a write: an image that cannot be
// recovered is stored as no image.
func (s *Service) compactSessionImages(sess *model.Session) bool {
	degraded := false

	for i := range sess.Pages {
		img := sess.Pages[i].Image
		if img == nil {
			continue
		}
		out, d := s.compactor.Compact(*img, s.opts.PageImageMaxBytes, s.opts.PageImageMaxWidth)
		degraded = degraded || d
		if out.IsZero() {
			sess.Pages[i].Image = nil
			continue
		}
		sess.Pages[i].Image = &out
	}

	for i := range sess.Messages {
		msg := &sess.Messages[i]
		if len(msg.Images) == 0 {
			continue
		}
		if s.opts.MaxImagesPerMessage > 0 && len(msg.Images) > s.opts.MaxImagesPerMessage {
			msg.Images = msg.Images[:s.opts.MaxImagesPerMessage]
			degraded = true
		}
		kept := msg.Images[:0]
		for _, img := range msg.Images {
			out, d := s.compactor.Compact(img, s.opts.ChatImageMaxBytes, s.opts.ChatImageMaxWidth)
			degraded = degraded || d
			if out.IsZero() {
				continue
			}
			kept = append(kept, out)
		}
		if len(kept) == 0 {
			msg.Images = nil
		} else {
			msg.Images = kept
		}
	}

	return degraded
}
