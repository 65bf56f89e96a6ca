package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chainsync/internal/features/catalog"
	"chainsync/internal/features/member"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type mockProductRepo struct {
	bySKU    map[string]*catalog.Product
	updates  map[string][]bson.M // sku -> UpdateFields payloads
	failSKUs map[string]error
	panicSKU string
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		bySKU:    make(map[string]*catalog.Product),
		updates:  make(map[string][]bson.M),
		failSKUs: make(map[string]error),
	}
}

func (m *mockProductRepo) Create(ctx context.Context, product *catalog.Product) error {
	if product.SKU == m.panicSKU {
		panic("storage corrupted")
	}
	if err, ok := m.failSKUs[product.SKU]; ok {
		return err
	}
	product.ID = primitive.NewObjectID()
	m.bySKU[product.SKU] = product
	return nil
}

func (m *mockProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	if p, ok := m.bySKU[sku]; ok {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockProductRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	for sku, p := range m.bySKU {
		if p.ID == id {
			m.updates[sku] = append(m.updates[sku], fields)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *mockProductRepo) List(ctx context.Context, limit, offset int64) ([]catalog.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) EnsureIndexes(ctx context.Context) error { return nil }

type inventoryKey struct {
	product primitive.ObjectID
	store   primitive.ObjectID
}

type mockInventoryRepo struct {
	levels map[inventoryKey]int
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{levels: make(map[inventoryKey]int)}
}

func (m *mockInventoryRepo) Upsert(ctx context.Context, productID, storeID primitive.ObjectID, quantity int, expiry *time.Time) error {
	m.levels[inventoryKey{productID, storeID}] = quantity
	return nil
}

func (m *mockInventoryRepo) FindByProductAndStore(ctx context.Context, productID, storeID primitive.ObjectID) (*catalog.InventoryLevel, error) {
	return nil, mongo.ErrNoDocuments
}

func (m *mockInventoryRepo) ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]catalog.InventoryLevel, error) {
	return nil, nil
}

type mockMemberRepo struct {
	byLoyaltyID map[string]*member.Member
	updates     map[string][]bson.M
	links       map[string][]primitive.ObjectID // loyalty id -> stores
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{
		byLoyaltyID: make(map[string]*member.Member),
		updates:     make(map[string][]bson.M),
		links:       make(map[string][]primitive.ObjectID),
	}
}

func (m *mockMemberRepo) Create(ctx context.Context, mem *member.Member) error {
	mem.ID = primitive.NewObjectID()
	m.byLoyaltyID[mem.LoyaltyID] = mem
	return nil
}

func (m *mockMemberRepo) FindByLoyaltyID(ctx context.Context, loyaltyID string) (*member.Member, error) {
	if mem, ok := m.byLoyaltyID[loyaltyID]; ok {
		return mem, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockMemberRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	for lid, mem := range m.byLoyaltyID {
		if mem.ID == id {
			m.updates[lid] = append(m.updates[lid], fields)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *mockMemberRepo) List(ctx context.Context, limit, offset int64) ([]member.Member, error) {
	return nil, nil
}

func (m *mockMemberRepo) UpsertStoreLink(ctx context.Context, memberID, storeID primitive.ObjectID) error {
	for lid, mem := range m.byLoyaltyID {
		if mem.ID == memberID {
			m.links[lid] = append(m.links[lid], storeID)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *mockMemberRepo) EnsureIndexes(ctx context.Context) error { return nil }

type recordingPublisher struct {
	events []Progress
}

func (p *recordingPublisher) Publish(event Progress) {
	p.events = append(p.events, event)
}

func productRecords(n int) []ValidatedRecord {
	records := make([]ValidatedRecord, n)
	for i := range records {
		records[i] = ValidatedRecord{
			Row: i + headerOffset,
			Product: &ProductRecord{
				Name:  fmt.Sprintf("Product %d", i+1),
				SKU:   fmt.Sprintf("SKU-%03d", i+1),
				Price: "9.99",
				Stock: i + 1,
			},
		}
	}
	return records
}

func newTestEngine(products *mockProductRepo, inventory *mockInventoryRepo, members *mockMemberRepo, pub ProgressPublisher) *UpsertEngine {
	return NewUpsertEngine(products, inventory, members, 50, pub, zap.NewNop())
}

func TestImportRecordsBatchingAndIsolation(t *testing.T) {
	products := newMockProductRepo()
	inventory := newMockInventoryRepo()
	members := newMockMemberRepo()
	pub := &recordingPublisher{}
	engine := newTestEngine(products, inventory, members, pub)

	// Record 75 fails; every other record of the 120 must still land.
	products.failSKUs["SKU-075"] = errors.New("duplicate key")

	storeID := primitive.NewObjectID()
	result := engine.ImportRecords(context.Background(), "sess-1", productRecords(120), storeID)

	if result.Success {
		t.Error("a failed record must not report success")
	}
	if result.ImportedCount != 119 {
		t.Errorf("imported = %d, want 119", result.ImportedCount)
	}
	if len(result.FailedRecords) != 1 {
		t.Fatalf("failed = %d, want 1", len(result.FailedRecords))
	}
	if got := result.FailedRecords[0].Record.Product.SKU; got != "SKU-075" {
		t.Errorf("failed record sku = %q", got)
	}

	if len(products.bySKU) != 119 {
		t.Errorf("stored products = %d, want 119", len(products.bySKU))
	}
	if len(inventory.levels) != 119 {
		t.Errorf("inventory rows = %d, want 119", len(inventory.levels))
	}

	if len(pub.events) != 3 {
		t.Fatalf("progress events = %d, want 3 batches", len(pub.events))
	}
	last := pub.events[2]
	if last.Batch != 3 || last.TotalBatches != 3 {
		t.Errorf("last event batch = %d/%d", last.Batch, last.TotalBatches)
	}
	if last.Imported != 119 || last.Failed != 1 {
		t.Errorf("last event counts = %d imported / %d failed", last.Imported, last.Failed)
	}
}

func TestImportRecordsMergeExisting(t *testing.T) {
	products := newMockProductRepo()
	inventory := newMockInventoryRepo()
	members := newMockMemberRepo()
	engine := newTestEngine(products, inventory, members, nil)

	existing := &catalog.Product{
		Name:        "Old Name",
		SKU:         "SKU-001",
		Price:       "5.00",
		Description: "kept description",
	}
	if err := products.Create(context.Background(), existing); err != nil {
		t.Fatal(err)
	}

	storeID := primitive.NewObjectID()
	records := []ValidatedRecord{{
		Row: 2,
		Product: &ProductRecord{
			Name:  "New Name",
			SKU:   "SKU-001",
			Price: "6.50",
			Stock: 12,
			// Description deliberately empty
		},
	}}

	result := engine.ImportRecords(context.Background(), "sess-2", records, storeID)
	if !result.Success {
		t.Fatalf("unexpected failure: %+v", result.FailedRecords)
	}

	updates := products.updates["SKU-001"]
	if len(updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(updates))
	}
	fields := updates[0]
	if fields["name"] != "New Name" || fields["price"] != "6.50" {
		t.Errorf("merged fields = %v", fields)
	}
	if _, ok := fields["description"]; ok {
		t.Error("empty incoming description must not overwrite the stored one")
	}
	if qty := inventory.levels[inventoryKey{existing.ID, storeID}]; qty != 12 {
		t.Errorf("inventory quantity = %d, want 12", qty)
	}
}

func TestImportRecordsIdempotent(t *testing.T) {
	products := newMockProductRepo()
	inventory := newMockInventoryRepo()
	members := newMockMemberRepo()
	engine := newTestEngine(products, inventory, members, nil)

	storeID := primitive.NewObjectID()
	records := productRecords(5)

	for run := 0; run < 2; run++ {
		result := engine.ImportRecords(context.Background(), "sess-3", records, storeID)
		if !result.Success {
			t.Fatalf("run %d failed: %+v", run, result.FailedRecords)
		}
	}

	if len(products.bySKU) != 5 {
		t.Errorf("products = %d after re-import, want 5", len(products.bySKU))
	}
	if len(inventory.levels) != 5 {
		t.Errorf("inventory rows = %d after re-import, want 5", len(inventory.levels))
	}
}

func TestImportRecordsPanicIsolatedToRecord(t *testing.T) {
	products := newMockProductRepo()
	inventory := newMockInventoryRepo()
	members := newMockMemberRepo()
	engine := newTestEngine(products, inventory, members, nil)

	products.panicSKU = "SKU-060"

	storeID := primitive.NewObjectID()
	result := engine.ImportRecords(context.Background(), "sess-4", productRecords(120), storeID)

	if result.Success {
		t.Fatal("a run with a panicking record must not report success")
	}
	// Only the poisoned record fails; every other record still goes in.
	if result.ImportedCount != 119 {
		t.Errorf("imported = %d, want 119", result.ImportedCount)
	}
	if len(result.FailedRecords) != 1 {
		t.Fatalf("failed = %d, want 1", len(result.FailedRecords))
	}
	if fr := result.FailedRecords[0]; fr.Record.Product == nil || fr.Record.Product.SKU != "SKU-060" {
		t.Errorf("failed record = %+v, want the panicking SKU-060", fr.Record)
	}
	if len(products.bySKU) != 119 {
		t.Errorf("stored products = %d, want 119", len(products.bySKU))
	}
}

func TestImportRecordsContextCancelled(t *testing.T) {
	products := newMockProductRepo()
	inventory := newMockInventoryRepo()
	members := newMockMemberRepo()
	engine := newTestEngine(products, inventory, members, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := engine.ImportRecords(ctx, "sess-5", productRecords(10), primitive.NewObjectID())

	if result.Success {
		t.Fatal("a cancelled run must not report success")
	}
	if result.ImportedCount != 0 {
		t.Errorf("imported = %d, want 0", result.ImportedCount)
	}
	if len(result.FailedRecords) != 10 {
		t.Errorf("failed = %d, want all 10", len(result.FailedRecords))
	}
}

func TestImportRecordsMemberMerge(t *testing.T) {
	products := newMockProductRepo()
	inventory := newMockInventoryRepo()
	members := newMockMemberRepo()
	engine := newTestEngine(products, inventory, members, nil)

	existing := &member.Member{
		LoyaltyID: "L-100",
		Name:      "Alex Doe",
		Email:     "alex@example.com",
		Points:    500,
	}
	if err := members.Create(context.Background(), existing); err != nil {
		t.Fatal(err)
	}

	storeID := primitive.NewObjectID()
	records := []ValidatedRecord{{
		Row: 2,
		Member: &MemberRecord{
			LoyaltyID: "L-100",
			Name:      "Alex Doe",
			Phone:     "555-0100",
			// Points absent: the stored balance must survive
		},
	}}

	result := engine.ImportRecords(context.Background(), "sess-6", records, storeID)
	if !result.Success {
		t.Fatalf("unexpected failure: %+v", result.FailedRecords)
	}

	updates := members.updates["L-100"]
	if len(updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(updates))
	}
	if _, ok := updates[0]["points"]; ok {
		t.Error("absent points must not overwrite the stored balance")
	}
	if updates[0]["phone"] != "555-0100" {
		t.Errorf("phone not merged: %v", updates[0])
	}
	if links := members.links["L-100"]; len(links) != 1 || links[0] != storeID {
		t.Errorf("store enrollment not written: %v", links)
	}
}
