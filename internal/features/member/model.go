package member

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a loyalty-program member. The loyalty ID is the natural key and
// is unique across the chain; enrollment at a store is a separate link row.
type Member struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	LoyaltyID string             `json:"loyalty_id" bson:"loyalty_id"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Points    int                `json:"points" bson:"points"`
	JoinedAt  *time.Time         `json:"joined_at,omitempty" bson:"joined_at,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// StoreLink records that a member is enrolled at a store, upserted by the
// composite key (member_id, store_id).
type StoreLink struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MemberID   primitive.ObjectID `json:"member_id" bson:"member_id"`
	StoreID    primitive.ObjectID `json:"store_id" bson:"store_id"`
	EnrolledAt time.Time          `json:"enrolled_at" bson:"enrolled_at"`
}
