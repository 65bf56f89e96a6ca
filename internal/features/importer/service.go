package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"chainsync/internal/features/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrStoreRequired     = errors.New("a destination store must be selected before import")
	ErrStoreNotFound     = errors.New("store not found")
	ErrMappingIncomplete = errors.New("every required field must be mapped to a column")
	ErrNothingToImport   = errors.New("validation left no rows to import")
	ErrNoValidation      = errors.New("session has no validation result")
)

type ImportService interface {
	CreateSession(ctx context.Context, file io.Reader, filename string, dataType DataType) (*Session, *AnalyzeResult, error)
	GetSession(id string) (*Session, error)
	GetMapping(id string) ([]ColumnMapping, error)
	SetMapping(id string, mappings []ColumnMapping) (*Session, error)
	Validate(ctx context.Context, id string) (*ValidationResult, error)
	Import(ctx context.Context, id string, storeID string) (*ImportResult, error)
	Back(id string) (*Session, error)
	Reset(id string) (*Session, error)
	ErrorReport(id string) ([]byte, error)
	PurgeIdleSessions(maxIdle time.Duration) int
}

type ImportServiceImpl struct {
	Sessions  *SessionStore
	StoreRepo store.StoreRepository
	Validator *Validator
	Engine    *UpsertEngine
	Logger    *zap.Logger
}

func NewImportService(
	sessions *SessionStore,
	storeRepo store.StoreRepository,
	validator *Validator,
	engine *UpsertEngine,
	logger *zap.Logger,
) ImportService {
	return &ImportServiceImpl{
		Sessions:  sessions,
		StoreRepo: storeRepo,
		Validator: validator,
		Engine:    engine,
		Logger:    logger,
	}
}

// CreateSession parses the uploaded file and opens a new session already
// advanced to the mapping stage, pre-filled with suggested mappings. The
// destination store is chosen later, at the import step.
func (s *ImportServiceImpl) CreateSession(ctx context.Context, file io.Reader, filename string, dataType DataType) (*Session, *AnalyzeResult, error) {
	if dataType != DataTypeInventory && dataType != DataTypeLoyalty {
		return nil, nil, fmt.Errorf("unknown data type %q", dataType)
	}

	headers, rows, err := ParseFile(file, filename)
	if err != nil {
		return nil, nil, err
	}

	suggestions := SuggestMappings(headers, dataType)

	session := s.Sessions.Create(dataType, filename, headers, rows)
	session.Lock()
	session.Mappings = suggestions
	err = session.Advance(StageMapping)
	session.Unlock()
	if err != nil {
		return nil, nil, err
	}

	s.Logger.Info("import session created",
		zap.String("sessionId", session.ID),
		zap.String("dataType", string(dataType)),
		zap.String("fileName", filename),
		zap.Int("totalRows", len(rows)),
	)

	return session, &AnalyzeResult{
		Headers:     headers,
		SampleRows:  SampleRows(rows, 5),
		TotalRows:   len(rows),
		Suggestions: suggestions,
	}, nil
}

func (s *ImportServiceImpl) GetSession(id string) (*Session, error) {
	return s.Sessions.Get(id)
}

func (s *ImportServiceImpl) GetMapping(id string) ([]ColumnMapping, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	return session.Mappings, nil
}

// SetMapping replaces the session's mappings with the reviewed ones. The
// session stays at the mapping stage until validation is requested.
func (s *ImportServiceImpl) SetMapping(id string, mappings []ColumnMapping) (*Session, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	if session.Stage != StageMapping {
		return nil, fmt.Errorf("%w: mapping is editable only at the mapping stage, session is at %s", ErrInvalidTransition, session.Stage)
	}

	if err := checkMappings(mappings, session.DataType); err != nil {
		return nil, err
	}

	session.Mappings = mappings
	session.UpdatedAt = time.Now()
	return session, nil
}

// checkMappings rejects unknown target fields, two columns feeding the
// same field, and any required field left without a column.
func checkMappings(mappings []ColumnMapping, dataType DataType) error {
	known := map[string]TargetFieldSpec{}
	for _, f := range TargetFields(dataType) {
		known[f.Name] = f
	}

	mapped := map[string]string{}
	for _, m := range mappings {
		if m.TargetField == "" {
			continue
		}
		if _, ok := known[m.TargetField]; !ok {
			return fmt.Errorf("unknown target field %q", m.TargetField)
		}
		if prev, ok := mapped[m.TargetField]; ok {
			return fmt.Errorf("field %q is mapped from both %q and %q", m.TargetField, prev, m.SourceColumn)
		}
		mapped[m.TargetField] = m.SourceColumn
	}

	for _, f := range RequiredFields(dataType) {
		if _, ok := mapped[f]; !ok {
			return fmt.Errorf("%w: %q is not mapped", ErrMappingIncomplete, f)
		}
	}
	return nil
}

func (s *ImportServiceImpl) Validate(ctx context.Context, id string) (*ValidationResult, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	if err := checkMappings(session.Mappings, session.DataType); err != nil {
		return nil, err
	}
	if err := session.Advance(StageValidation); err != nil {
		return nil, err
	}

	result := s.Validator.ValidateRows(ctx, session.Rows, session.Mappings, session.DataType)
	session.Validation = result
	session.UpdatedAt = time.Now()
	return result, nil
}

// Import runs the upsert pass over the rows that survived validation,
// into the store named by storeID. It is allowed even when validation
// reported row failures: good rows go in, bad rows stay in the error
// report.
func (s *ImportServiceImpl) Import(ctx context.Context, id string, storeID string) (*ImportResult, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	if storeID == "" {
		return nil, ErrStoreRequired
	}
	storeOID, err := primitive.ObjectIDFromHex(storeID)
	if err != nil {
		return nil, ErrStoreNotFound
	}
	if _, err := s.StoreRepo.Get(ctx, storeOID); err != nil {
		return nil, ErrStoreNotFound
	}
	if session.Validation == nil {
		return nil, ErrNoValidation
	}
	if len(session.Validation.MappedData) == 0 {
		return nil, ErrNothingToImport
	}
	if err := session.Advance(StageImport); err != nil {
		return nil, err
	}
	session.StoreID = storeOID

	result := s.Engine.ImportRecords(ctx, session.ID, session.Validation.MappedData, storeOID)
	session.Result = result
	if err := session.Advance(StageComplete); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ImportServiceImpl) Back(id string) (*Session, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	if err := session.Back(); err != nil {
		return nil, err
	}
	return session, nil
}

// Reset starts the session over. Mid-flow the parsed file is kept and
// fresh suggestions are generated; a completed session is discarded
// entirely, so the caller starts again from a new upload. A nil session
// with a nil error signals the discard.
func (s *ImportServiceImpl) Reset(id string) (*Session, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	if session.Stage == StageComplete {
		s.Sessions.Delete(id)
		s.Logger.Info("completed import session discarded", zap.String("sessionId", id))
		return nil, nil
	}
	if err := session.Reset(); err != nil {
		return nil, err
	}
	// a reset session starts over from fresh suggestions
	session.Mappings = SuggestMappings(session.Headers, session.DataType)
	if err := session.Advance(StageMapping); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ImportServiceImpl) ErrorReport(id string) ([]byte, error) {
	session, err := s.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	session.Lock()
	defer session.Unlock()
	if session.Validation == nil {
		return nil, ErrNoValidation
	}
	return ErrorReportCSV(session.Validation)
}

func (s *ImportServiceImpl) PurgeIdleSessions(maxIdle time.Duration) int {
	return s.Sessions.PurgeIdle(maxIdle)
}
