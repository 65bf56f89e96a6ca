package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is an organizational unit (a physical shop). Inventory levels and
// member enrollments are scoped to a store; products and members are not.
type Store struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Code      string             `json:"code" bson:"code"`
	Location  string             `json:"location" bson:"location"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
