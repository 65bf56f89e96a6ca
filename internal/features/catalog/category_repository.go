package catalog

import (
	"context"
	"time"

	"chainsync/internal/database"
	"chainsync/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByNameFold(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
}

type CategoryRepositoryImpl struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *database.MongodbDB) CategoryRepository {
	return &CategoryRepositoryImpl{
		collection: db.DB.Collection("categories"),
	}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	if category.Slug == "" {
		category.Slug = utils.Slugify(category.Name)
	}
	category.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, category)
	return err
}

// FindByNameFold matches the category name case-insensitively, so "Fruit"
// and "fruit" resolve to the same document.
func (r *CategoryRepositoryImpl) FindByNameFold(ctx context.Context, name string) (*Category, error) {
	opts := options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2})

	var c Category
	err := r.collection.FindOne(ctx, bson.M{"name": name}, opts).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
