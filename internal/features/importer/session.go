package importer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stage is the step an import session is currently at. Sessions only move
// forward one stage at a time, or back with an explicit Back/Reset.
type Stage string

const (
	StageUpload     Stage = "upload"
	StageMapping    Stage = "mapping"
	StageValidation Stage = "validation"
	StageImport     Stage = "import"
	StageComplete   Stage = "complete"
)

var (
	ErrSessionNotFound   = errors.New("import session not found")
	ErrInvalidTransition = errors.New("operation not allowed at this stage")
)

// Session holds everything a multi-step import accumulates: the parsed
// file, the accepted mapping, the validation output and the final result.
// StoreID stays zero until the import step names a destination store.
// mu serializes concurrent requests hitting the same session ID.
type Session struct {
	mu sync.Mutex

	ID         string             `json:"id"`
	DataType   DataType           `json:"dataType"`
	StoreID    primitive.ObjectID `json:"storeId"`
	Filename   string             `json:"filename"`
	Stage      Stage              `json:"stage"`
	Headers    []string           `json:"headers"`
	Rows       []RawRow           `json:"-"`
	TotalRows  int                `json:"totalRows"`
	Mappings   []ColumnMapping    `json:"mappings,omitempty"`
	Validation *ValidationResult  `json:"validation,omitempty"`
	Result     *ImportResult      `json:"result,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Lock serializes access to the session's mutable state. Handlers that
// read or change a session after fetching it from the store hold this
// for the duration of the operation.
func (s *Session) Lock() { s.mu.Lock() }

func (s *Session) Unlock() { s.mu.Unlock() }

// advanceFrom maps every stage to the only stage it may advance to.
var advanceFrom = map[Stage]Stage{
	StageUpload:     StageMapping,
	StageMapping:    StageValidation,
	StageValidation: StageImport,
	StageImport:     StageComplete,
}

// backFrom maps a stage to the stage Back returns to. Upload has nowhere
// to go back to and complete is terminal.
var backFrom = map[Stage]Stage{
	StageMapping:    StageUpload,
	StageValidation: StageMapping,
	StageImport:     StageValidation,
}

// Advance moves the session forward one stage. Skipping stages is refused.
func (s *Session) Advance(to Stage) error {
	next, ok := advanceFrom[s.Stage]
	if !ok || next != to {
		return fmt.Errorf("%w: cannot advance from %s to %s", ErrInvalidTransition, s.Stage, to)
	}
	s.Stage = to
	s.UpdatedAt = time.Now()
	return nil
}

// Back steps the session one stage backwards and throws away the work the
// abandoned stage produced, so re-entering it starts clean.
func (s *Session) Back() error {
	prev, ok := backFrom[s.Stage]
	if !ok {
		return fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, s.Stage)
	}
	switch s.Stage {
	case StageValidation:
		s.Validation = nil
	case StageImport:
		s.Result = nil
	}
	s.Stage = prev
	s.UpdatedAt = time.Now()
	return nil
}

// Reset returns a session to the state right after upload: the parsed file
// survives, mapping and everything derived from it is discarded. A
// completed session is not reset this way — it is discarded wholesale by
// the service.
func (s *Session) Reset() error {
	if s.Stage == StageComplete {
		return fmt.Errorf("%w: a completed session is discarded, not reset", ErrInvalidTransition)
	}
	s.Mappings = nil
	s.Validation = nil
	s.Result = nil
	s.Stage = StageUpload
	s.UpdatedAt = time.Now()
	return nil
}

// SessionStore keeps live import sessions in memory. Sessions are
// short-lived working state, not durable data, so process restart
// discarding them is acceptable.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (st *SessionStore) Create(dataType DataType, filename string, headers []string, rows []RawRow) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		DataType:  dataType,
		Filename:  filename,
		Stage:     StageUpload,
		Headers:   headers,
		Rows:      rows,
		TotalRows: len(rows),
		CreatedAt: now,
		UpdatedAt: now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// PurgeIdle drops sessions not touched for maxIdle and returns how many
// were removed.
func (st *SessionStore) PurgeIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	removed := 0

	st.mu.Lock()
	for id, s := range st.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	st.mu.Unlock()
	return removed
}
