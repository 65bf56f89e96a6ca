package member

import (
	"context"
	"time"

	"chainsync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MemberRepository interface {
	Create(ctx context.Context, member *Member) error
	FindByLoyaltyID(ctx context.Context, loyaltyID string) (*Member, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	List(ctx context.Context, limit, offset int64) ([]Member, error)
	UpsertStoreLink(ctx context.Context, memberID, storeID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type MemberRepositoryImpl struct {
	collection *mongo.Collection
	links      *mongo.Collection
}

func NewMemberRepository(db *database.MongodbDB) MemberRepository {
	return &MemberRepositoryImpl{
		collection: db.DB.Collection("members"),
		links:      db.DB.Collection("member_store_links"),
	}
}

func (r *MemberRepositoryImpl) Create(ctx context.Context, member *Member) error {
	if member.ID.IsZero() {
		member.ID = primitive.NewObjectID()
	}
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, member)
	return err
}

func (r *MemberRepositoryImpl) FindByLoyaltyID(ctx context.Context, loyaltyID string) (*Member, error) {
	var m Member
	err := r.collection.FindOne(ctx, bson.M{"loyalty_id": loyaltyID}).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *MemberRepositoryImpl) List(ctx context.Context, limit, offset int64) ([]Member, error) {
	opts := options.Find().SetLimit(limit).SetSkip(offset).SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []Member
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// UpsertStoreLink enrolls a member at a store; re-importing the same member
// for the same store is a no-op on the link.
func (r *MemberRepositoryImpl) UpsertStoreLink(ctx context.Context, memberID, storeID primitive.ObjectID) error {
	filter := bson.M{"member_id": memberID, "store_id": storeID}
	update := bson.M{"$setOnInsert": bson.M{"enrolled_at": time.Now()}}

	_, err := r.links.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *MemberRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "loyalty_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = r.links.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "store_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
