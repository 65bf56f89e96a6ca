package importer

import (
	"context"
	"errors"
	"fmt"

	"chainsync/internal/features/catalog"
	"chainsync/internal/features/member"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const defaultBatchSize = 50

// abortReason marks records that were never attempted because the run
// failed outside record isolation.
const abortReason = "import aborted before this record was attempted"

// ProgressPublisher receives batch-level progress events. A nil publisher
// is valid and means nobody is listening.
type ProgressPublisher interface {
	Publish(p Progress)
}

// UpsertEngine merges validated records into the catalog or the loyalty
// base, in bounded batches, isolating failures at the record boundary.
type UpsertEngine struct {
	ProductRepo   catalog.ProductRepository
	InventoryRepo catalog.InventoryRepository
	MemberRepo    member.MemberRepository
	BatchSize     int
	Progress      ProgressPublisher
	Logger        *zap.Logger
}

func NewUpsertEngine(productRepo catalog.ProductRepository, inventoryRepo catalog.InventoryRepository, memberRepo member.MemberRepository, batchSize int, progress ProgressPublisher, logger *zap.Logger) *UpsertEngine {
	return &UpsertEngine{
		ProductRepo:   productRepo,
		InventoryRepo: inventoryRepo,
		MemberRepo:    memberRepo,
		BatchSize:     batchSize,
		Progress:      progress,
		Logger:        logger,
	}
}

// ImportRecords runs the full upsert pass. A record failure — an error or
// a panic — is collected and the batch moves on; only a cancelled context
// between batches fails every record not yet attempted, keeping
// everything already committed.
func (e *UpsertEngine) ImportRecords(ctx context.Context, sessionID string, records []ValidatedRecord, storeID primitive.ObjectID) *ImportResult {
	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	totalBatches := (len(records) + batchSize - 1) / batchSize
	failed := []FailedRecord{}

	next := 0 // index of the first not-yet-attempted record

	for b := 0; b < totalBatches; b++ {
		end := (b + 1) * batchSize
		if end > len(records) {
			end = len(records)
		}

		if err := ctx.Err(); err != nil {
			for ; next < len(records); next++ {
				failed = append(failed, FailedRecord{Record: records[next], Error: abortReason})
			}
			break
		}

		for ; next < end; next++ {
			rec := records[next]
			if err := e.importOneIsolated(ctx, rec, storeID); err != nil {
				failed = append(failed, FailedRecord{Record: rec, Error: err.Error()})
			}
		}

		if e.Progress != nil {
			e.Progress.Publish(Progress{
				SessionID:    sessionID,
				Batch:        b + 1,
				TotalBatches: totalBatches,
				Imported:     next - len(failed),
				Failed:       len(failed),
			})
		}
	}

	result := &ImportResult{
		Success:       len(failed) == 0,
		ImportedCount: len(records) - len(failed),
		FailedRecords: failed,
	}

	if e.Logger != nil {
		e.Logger.Info("import run finished",
			zap.String("sessionId", sessionID),
			zap.String("storeId", storeID.Hex()),
			zap.Int("imported", result.ImportedCount),
			zap.Int("failed", len(failed)),
		)
	}

	return result
}

// importOneIsolated confines a panic to the record that raised it, so one
// poisoned record never takes the rest of the run down with it.
func (e *UpsertEngine) importOneIsolated(ctx context.Context, rec ValidatedRecord, storeID primitive.ObjectID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e.Logger != nil {
				e.Logger.Error("import record panicked", zap.Int("row", rec.Row), zap.Any("panic", r))
			}
			err = fmt.Errorf("row %d: %v", rec.Row, r)
		}
	}()
	return e.importOne(ctx, rec, storeID)
}

func (e *UpsertEngine) importOne(ctx context.Context, rec ValidatedRecord, storeID primitive.ObjectID) error {
	switch {
	case rec.Product != nil:
		return e.upsertProduct(ctx, rec.Product, storeID)
	case rec.Member != nil:
		return e.upsertMember(ctx, rec.Member, storeID)
	default:
		return fmt.Errorf("row %d: record has no payload", rec.Row)
	}
}

// upsertProduct looks the product up by SKU across the whole catalog, then
// either merges into the existing document or inserts a new one, and
// finally writes the store-scoped inventory row. Merge means an empty
// incoming field keeps the stored value.
func (e *UpsertEngine) upsertProduct(ctx context.Context, rec *ProductRecord, storeID primitive.ObjectID) error {
	existing, err := e.ProductRepo.FindBySKU(ctx, rec.SKU)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("lookup sku %q: %w", rec.SKU, err)
	}

	var productID primitive.ObjectID
	if existing != nil {
		fields := bson.M{}
		if rec.Name != "" {
			fields["name"] = rec.Name
		}
		if rec.Price != "" {
			fields["price"] = rec.Price
		}
		if !rec.CategoryID.IsZero() {
			fields["category_id"] = rec.CategoryID
		}
		if rec.Description != "" {
			fields["description"] = rec.Description
		}
		if rec.Supplier != "" {
			fields["supplier"] = rec.Supplier
		}
		if rec.CostPrice != "" {
			fields["cost_price"] = rec.CostPrice
		}
		if len(fields) > 0 {
			if err := e.ProductRepo.UpdateFields(ctx, existing.ID, fields); err != nil {
				return fmt.Errorf("update product %q: %w", rec.SKU, err)
			}
		}
		productID = existing.ID
	} else {
		product := &catalog.Product{
			Name:        rec.Name,
			SKU:         rec.SKU,
			CategoryID:  rec.CategoryID,
			Price:       rec.Price,
			CostPrice:   rec.CostPrice,
			Description: rec.Description,
			Supplier:    rec.Supplier,
		}
		if err := e.ProductRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("insert product %q: %w", rec.SKU, err)
		}
		productID = product.ID
	}

	if err := e.InventoryRepo.Upsert(ctx, productID, storeID, rec.Stock, rec.ExpiryDate); err != nil {
		return fmt.Errorf("upsert inventory for %q: %w", rec.SKU, err)
	}

	return nil
}

func (e *UpsertEngine) upsertMember(ctx context.Context, rec *MemberRecord, storeID primitive.ObjectID) error {
	existing, err := e.MemberRepo.FindByLoyaltyID(ctx, rec.LoyaltyID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("lookup loyalty id %q: %w", rec.LoyaltyID, err)
	}

	var memberID primitive.ObjectID
	if existing != nil {
		fields := bson.M{}
		if rec.Name != "" {
			fields["name"] = rec.Name
		}
		if rec.Email != "" {
			fields["email"] = rec.Email
		}
		if rec.Phone != "" {
			fields["phone"] = rec.Phone
		}
		if rec.Points != nil {
			fields["points"] = *rec.Points
		}
		if rec.JoinedAt != nil {
			fields["joined_at"] = rec.JoinedAt
		}
		if len(fields) > 0 {
			if err := e.MemberRepo.UpdateFields(ctx, existing.ID, fields); err != nil {
				return fmt.Errorf("update member %q: %w", rec.LoyaltyID, err)
			}
		}
		memberID = existing.ID
	} else {
		m := &member.Member{
			LoyaltyID: rec.LoyaltyID,
			Name:      rec.Name,
			Email:     rec.Email,
			Phone:     rec.Phone,
			JoinedAt:  rec.JoinedAt,
		}
		if rec.Points != nil {
			m.Points = *rec.Points
		}
		if err := e.MemberRepo.Create(ctx, m); err != nil {
			return fmt.Errorf("insert member %q: %w", rec.LoyaltyID, err)
		}
		memberID = m.ID
	}

	if err := e.MemberRepo.UpsertStoreLink(ctx, memberID, storeID); err != nil {
		return fmt.Errorf("enroll member %q: %w", rec.LoyaltyID, err)
	}

	return nil
}
