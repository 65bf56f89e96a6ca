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

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	List(ctx context.Context, limit, offset int64) ([]Product, error)
	EnsureIndexes(ctx context.Context) error
}

type ProductRepositoryImpl struct {
	collection *mongo.Collection
}

func NewProductRepository(db *database.MongodbDB) ProductRepository {
	return &ProductRepositoryImpl{
		collection: db.DB.Collection("products"),
	}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// FindBySKU looks up a product by its natural key across the whole catalog.
func (r *ProductRepositoryImpl) FindBySKU(ctx context.Context, sku string) (*Product, error) {
	var p Product
	err := r.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateFields sets only the given fields, leaving everything else untouched.
// The caller decides which fields an import row is allowed to overwrite.
func (r *ProductRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *ProductRepositoryImpl) List(ctx context.Context, limit, offset int64) ([]Product, error) {
	opts := options.Find().SetLimit(limit).SetSkip(offset).SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
