package model

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Importance ranks how central a knowledge concept is to its subject.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// Image is an embedded raster image stored inline with its record.
// Data JSON-marshals to base64, so the flat string store holds it directly.
// Degraded is set when compaction had to truncate below target quality.
type Image struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
	Degraded bool   `json:"degraded,omitempty"`
}

// IsZero reports whether the image carries no data.
func (i Image) IsZero() bool {
	return i.MimeType == "" && len(i.Data) == 0
}

// Clone returns a deep copy of the image.
func (i Image) Clone() Image {
	out := i
	if i.Data != nil {
		out.Data = append([]byte(nil), i.Data...)
	}
	return out
}

// FileRecord is the metadata for an uploaded source document.
type FileRecord struct {
	ID         string    `json:"id"` // UUID
	Name       string    `json:"name"`
	ByteSize   int64     `json:"byteSize"`
	UploadedAt time.Time `json:"uploadedAt"`
	PageCount  int       `json:"pageCount"`
}

// Message is a single chat turn within a session.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Images    []Image   `json:"images,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.Images != nil {
		out.Images = make([]Image, len(m.Images))
		for i, img := range m.Images {
			out.Images[i] = img.Clone()
		}
	}
	return out
}

// Page is one parsed document page: extracted text plus an optional preview image.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Image  *Image `json:"image,omitempty"`
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := p
	if p.Image != nil {
		img := p.Image.Clone()
		out.Image = &img
	}
	return out
}

// Session is a study session over one uploaded document.
// At most one session per FileID is current; upserts are keyed by FileID.
// UpdatedAt is the eviction recency key.
type Session struct {
	ID          string    `json:"id"` // UUID
	FileID      string    `json:"fileId"`
	FileName    string    `json:"fileName"`
	Messages    []Message `json:"messages"`
	Pages       []Page    `json:"pages"`
	ActiveStart int       `json:"activeStart"`
	ActiveEnd   int       `json:"activeEnd"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		for i, m := range s.Messages {
			out.Messages[i] = m.Clone()
		}
	}
	if s.Pages != nil {
		out.Pages = make([]Page, len(s.Pages))
		for i, p := range s.Pages {
			out.Pages[i] = p.Clone()
		}
	}
	return out
}

// StripImages returns a copy of the session with every embedded image
// removed. Used for the autosave snapshot, which is text-only.
func (s Session) StripImages() Session {
	out := s.Clone()
	for i := range out.Messages {
		out.Messages[i].Images = nil
	}
	for i := range out.Pages {
		out.Pages[i].Image = nil
	}
	return out
}

// Scheduling is the SM-2 state of a flashcard. These fields are mutated
// only by the scheduler; everything else on a card is replaced wholesale.
type Scheduling struct {
	EaseFactor   float64    `json:"easeFactor"`   // never below 1.3
	IntervalDays int        `json:"intervalDays"` // >= 0
	Repetitions  int        `json:"repetitions"`  // >= 0
	NextReviewAt time.Time  `json:"nextReviewAt"`
	LastReviewAt *time.Time `json:"lastReviewAt,omitempty"`
}

// NewScheduling returns the state of a card that has never been reviewed.
func NewScheduling(now time.Time) Scheduling {
	return Scheduling{
		EaseFactor:   2.5,
		IntervalDays: 0,
		Repetitions:  0,
		NextReviewAt: now,
	}
}

// Flashcard is a spaced-repetition card. SourceFileID may dangle: cards
// outlive the document they were generated from.
type Flashcard struct {
	ID           string     `json:"id"` // UUID
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Tags         []string   `json:"tags"`
	SourceFileID string     `json:"sourceFileId,omitempty"`
	Scheduling   Scheduling `json:"scheduling"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the flashcard.
func (c Flashcard) Clone() Flashcard {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Scheduling.LastReviewAt != nil {
		t := *c.Scheduling.LastReviewAt
		out.Scheduling.LastReviewAt = &t
	}
	return out
}

// KnowledgeConcept is a free-text note describing one concept.
type KnowledgeConcept struct {
	ID           string     `json:"id"` // UUID
	Title        string     `json:"title"`
	Definition   string     `json:"definition"`
	Details      string     `json:"details,omitempty"`
	Examples     []string   `json:"examples,omitempty"`
	Tags         []string   `json:"tags"`
	Importance   Importance `json:"importance"`
	SourceFileID string     `json:"sourceFileId,omitempty"`
	PageNumber   int        `json:"pageNumber,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the concept.
func (k KnowledgeConcept) Clone() KnowledgeConcept {
	out := k
	if k.Examples != nil {
		out.Examples = append([]string(nil), k.Examples...)
	}
	if k.Tags != nil {
		out.Tags = append([]string(nil), k.Tags...)
	}
	return out
}

// Formula is a LaTeX formula note.
type Formula struct {
	ID           string    `json:"id"` // UUID
	LaTeX        string    `json:"latex"`
	Name         string    `json:"name,omitempty"`
	Tags         []string  `json:"tags"`
	Category     string    `json:"category,omitempty"`
	Difficulty   string    `json:"difficulty,omitempty"`
	SourceFileID string    `json:"sourceFileId,omitempty"`
	PageNumber   int       `json:"pageNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the formula.
func (f Formula) Clone() Formula {
	out := f
	if f.Tags != nil {
		out.Tags = append([]string(nil), f.Tags...)
	}
	return out
}

// MindMapNode is one node in a mind map. ParentID is empty for the
// root node.
type MindMapNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ParentID string `json:"parentId,omitempty"`
}

// MindMap is a tree of concept nodes generated from a document.
type MindMap struct {
	ID           string        `json:"id"` // UUID
	Title        string        `json:"title"`
	Nodes        []MindMapNode `json:"nodes"`
	SourceFileID string        `json:"sourceFileId,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Clone returns a deep copy of the mind map.
func (m MindMap) Clone() MindMap {
	out := m
	if m.Nodes != nil {
		out.Nodes = append([]MindMapNode(nil), m.Nodes...)
	}
	return out
}

// Snapshot is the autosave projection of an in-flight session:
// image-stripped, overwritten on every tick, advisory only.
type Snapshot struct {
	Session Session   `json:"session"`
	SavedAt time.Time `json:"savedAt"`
}
