package store

import (
	"context"
	"time"

	"chainsync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type StoreRepository interface {
	Create(ctx context.Context, store *Store) error
	Get(ctx context.Context, id primitive.ObjectID) (*Store, error)
	FindByCode(ctx context.Context, code string) (*Store, error)
	List(ctx context.Context) ([]Store, error)
}

type StoreRepositoryImpl struct {
	collection *mongo.Collection
}

func NewStoreRepository(db *database.MongodbDB) StoreRepository {
	return &StoreRepositoryImpl{
		collection: db.DB.Collection("stores"),
	}
}

func (r *StoreRepositoryImpl) Create(ctx context.Context, store *Store) error {
	if store.ID.IsZero() {
		store.ID = primitive.NewObjectID()
	}
	store.Active = true
	store.CreatedAt = time.Now()
	store.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, store)
	return err
}

func (r *StoreRepositoryImpl) Get(ctx context.Context, id primitive.ObjectID) (*Store, error) {
	var s Store
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepositoryImpl) FindByCode(ctx context.Context, code string) (*Store, error) {
	var s Store
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepositoryImpl) List(ctx context.Context) ([]Store, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stores []Store
	if err = cursor.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}
