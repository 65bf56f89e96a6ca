package importer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"chainsync/internal/features/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type mockStoreRepo struct {
	stores map[primitive.ObjectID]*store.Store
}

func newMockStoreRepo(ids ...primitive.ObjectID) *mockStoreRepo {
	repo := &mockStoreRepo{stores: make(map[primitive.ObjectID]*store.Store)}
	for _, id := range ids {
		repo.stores[id] = &store.Store{ID: id, Name: "Test Store", Active: true}
	}
	return repo
}

func (m *mockStoreRepo) Create(ctx context.Context, st *store.Store) error {
	st.ID = primitive.NewObjectID()
	m.stores[st.ID] = st
	return nil
}

func (m *mockStoreRepo) Get(ctx context.Context, id primitive.ObjectID) (*store.Store, error) {
	if st, ok := m.stores[id]; ok {
		return st, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockStoreRepo) FindByCode(ctx context.Context, code string) (*store.Store, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *mockStoreRepo) List(ctx context.Context) ([]store.Store, error) {
	return nil, nil
}

func newTestService(t *testing.T) (ImportService, primitive.ObjectID, *mockProductRepo) {
	t.Helper()

	storeID := primitive.NewObjectID()
	storeRepo := newMockStoreRepo(storeID)
	categoryRepo := newMockCategoryRepo("Beverages")
	products := newMockProductRepo()

	validator := NewValidator(categoryRepo, nil, zap.NewNop())
	engine := NewUpsertEngine(products, newMockInventoryRepo(), newMockMemberRepo(), 50, nil, zap.NewNop())

	svc := NewImportService(NewSessionStore(), storeRepo, validator, engine, zap.NewNop())
	return svc, storeID, products
}

const stockCSV = "sku,Product Name,category,price,qty\n" +
	"S-1,Cola,Beverages,1.50,10\n" +
	"S-2,Water,Beverages,0.90,200\n"

func TestServiceFullFlow(t *testing.T) {
	svc, storeID, products := newTestService(t)
	ctx := context.Background()

	session, analysis, err := svc.CreateSession(ctx, strings.NewReader(stockCSV), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}
	if session.Stage != StageMapping {
		t.Fatalf("new session stage = %s, want mapping", session.Stage)
	}
	if analysis.TotalRows != 2 || len(analysis.Suggestions) != 5 {
		t.Fatalf("analysis = %d rows / %d suggestions", analysis.TotalRows, len(analysis.Suggestions))
	}

	// All five headers should be confidently pre-selected
	for _, m := range analysis.Suggestions {
		if m.TargetField == "" {
			t.Errorf("column %q not pre-selected", m.SourceColumn)
		}
	}

	if _, err := svc.SetMapping(session.ID, session.Mappings); err != nil {
		t.Fatal(err)
	}

	validation, err := svc.Validate(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !validation.Success || validation.ProcessedRows != 2 {
		t.Fatalf("validation = %+v", validation)
	}

	result, err := svc.Import(ctx, session.ID, storeID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.ImportedCount != 2 {
		t.Fatalf("import = %+v", result)
	}
	if len(products.bySKU) != 2 {
		t.Errorf("products stored = %d, want 2", len(products.bySKU))
	}

	got, err := svc.GetSession(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stage != StageComplete {
		t.Errorf("final stage = %s, want complete", got.Stage)
	}
}

func TestServiceImportRequiresKnownStore(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, strings.NewReader(stockCSV), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Validate(ctx, session.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Import(ctx, session.ID, ""); !errors.Is(err, ErrStoreRequired) {
		t.Errorf("err = %v, want ErrStoreRequired", err)
	}
	if _, err := svc.Import(ctx, session.ID, primitive.NewObjectID().Hex()); !errors.Is(err, ErrStoreNotFound) {
		t.Errorf("err = %v, want ErrStoreNotFound", err)
	}

	// Neither guard failure consumes the session
	got, err := svc.GetSession(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stage != StageValidation {
		t.Errorf("stage after guard failures = %s, want validation", got.Stage)
	}
}

func TestServiceMappingGuards(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, strings.NewReader(stockCSV), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}

	// A required field left unmapped is refused
	incomplete := []ColumnMapping{
		{SourceColumn: "sku", TargetField: FieldSKU},
	}
	if _, err := svc.SetMapping(session.ID, incomplete); !errors.Is(err, ErrMappingIncomplete) {
		t.Errorf("err = %v, want ErrMappingIncomplete", err)
	}

	// Duplicate target fields are refused
	duplicated := append([]ColumnMapping{}, session.Mappings...)
	duplicated = append(duplicated, ColumnMapping{SourceColumn: "qty", TargetField: FieldPrice})
	if _, err := svc.SetMapping(session.ID, duplicated); err == nil {
		t.Error("duplicate target mapping should be refused")
	}

	// Editing after validation is refused
	if _, err := svc.Validate(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetMapping(session.ID, session.Mappings); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestServiceImportGuards(t *testing.T) {
	svc, storeID, _ := newTestService(t)
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, strings.NewReader(stockCSV), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}

	// Import before validation is refused
	if _, err := svc.Import(ctx, session.ID, storeID.Hex()); !errors.Is(err, ErrNoValidation) {
		t.Errorf("err = %v, want ErrNoValidation", err)
	}

	if _, err := svc.Validate(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Import(ctx, session.ID, storeID.Hex()); err != nil {
		t.Fatal(err)
	}

	// A completed session cannot be imported twice
	if _, err := svc.Import(ctx, session.ID, storeID.Hex()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestServiceBackAndReset(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, strings.NewReader(stockCSV), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Validate(ctx, session.ID); err != nil {
		t.Fatal(err)
	}

	back, err := svc.Back(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if back.Stage != StageMapping || back.Validation != nil {
		t.Errorf("back: stage=%s validation=%v", back.Stage, back.Validation)
	}

	reset, err := svc.Reset(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reset.Stage != StageMapping {
		t.Errorf("reset stage = %s, want mapping with fresh suggestions", reset.Stage)
	}
	if len(reset.Mappings) != 5 {
		t.Errorf("reset suggestions = %d, want one per column", len(reset.Mappings))
	}
}

func TestServiceConcurrentSessionAccess(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, strings.NewReader(stockCSV), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}
	mappings, err := svc.GetMapping(session.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Hammer the same session from two sides; run with -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			svc.SetMapping(session.ID, mappings)
		}()
		go func() {
			defer wg.Done()
			svc.GetMapping(session.ID)
		}()
	}
	wg.Wait()

	got, err := svc.GetMapping(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(mappings) {
		t.Errorf("mappings = %d after concurrent edits, want %d", len(got), len(mappings))
	}
}

func TestServiceResetDiscardsCompletedSession(t *testing.T) {
	svc, storeID, _ := newTestService(t)
	ctx := context.Background()

	session, _, err := svc.CreateSession(ctx, strings.NewReader(stockCSV), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Validate(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Import(ctx, session.ID, storeID.Hex()); err != nil {
		t.Fatal(err)
	}

	gone, err := svc.Reset(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Errorf("reset of a completed session should discard it, got %+v", gone)
	}
	if _, err := svc.GetSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("discarded session still found, err = %v", err)
	}
}

func TestServiceErrorReport(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	input := "sku,Product Name,category,price,qty\n" +
		"S-1,Cola,Beverages,not-a-price,10\n" +
		"S-2,,Beverages,0.90,200\n"

	session, _, err := svc.CreateSession(ctx, strings.NewReader(input), "stock.csv", DataTypeInventory)
	if err != nil {
		t.Fatal(err)
	}

	// Report before validation is refused
	if _, err := svc.ErrorReport(session.ID); !errors.Is(err, ErrNoValidation) {
		t.Errorf("err = %v, want ErrNoValidation", err)
	}

	validation, err := svc.Validate(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if validation.Success {
		t.Fatal("expected validation failures")
	}

	report, err := svc.ErrorReport(session.ID)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	if lines[0] != "row,field,value,reason" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("report lines = %d, want header + 2 entries", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2,price,not-a-price") {
		t.Errorf("first entry = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "3,name,,missing required value") {
		t.Errorf("second entry = %q", lines[2])
	}
}
