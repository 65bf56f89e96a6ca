package catalog

import (
	"context"
	"time"

	"chainsync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InventoryRepository interface {
	Upsert(ctx context.Context, productID, storeID primitive.ObjectID, quantity int, expiry *time.Time) error
	FindByProductAndStore(ctx context.Context, productID, storeID primitive.ObjectID) (*InventoryLevel, error)
	ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]InventoryLevel, error)
}

type InventoryRepositoryImpl struct {
	collection *mongo.Collection
}

func NewInventoryRepository(db *database.MongodbDB) InventoryRepository {
	return &InventoryRepositoryImpl{
		collection: db.DB.Collection("inventory_levels"),
	}
}

// Upsert writes the store-scoped stock row keyed by (product_id, store_id).
// A nil expiry leaves any stored expiry date in place.
func (r *InventoryRepositoryImpl) Upsert(ctx context.Context, productID, storeID primitive.ObjectID, quantity int, expiry *time.Time) error {
	set := bson.M{
		"quantity":   quantity,
		"updated_at": time.Now(),
	}
	if expiry != nil {
		set["expiry_date"] = expiry
	}

	filter := bson.M{"product_id": productID, "store_id": storeID}
	update := bson.M{"$set": set}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *InventoryRepositoryImpl) FindByProductAndStore(ctx context.Context, productID, storeID primitive.ObjectID) (*InventoryLevel, error) {
	var level InventoryLevel
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID, "store_id": storeID}).Decode(&level)
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *InventoryRepositoryImpl) ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]InventoryLevel, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"store_id": storeID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var levels []InventoryLevel
	if err = cursor.All(ctx, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}
