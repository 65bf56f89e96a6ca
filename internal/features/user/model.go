package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an operator account. An empty Stores list grants chain-wide
// access; otherwise imports are limited to the listed stores.
type User struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email" bson:"email"`
	PasswordHash string               `json:"-" bson:"password_hash"`
	Roles        []primitive.ObjectID `json:"roles" bson:"roles"`
	Stores       []primitive.ObjectID `json:"stores,omitempty" bson:"stores,omitempty"`
	Active       bool                 `json:"active" bson:"active"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}
