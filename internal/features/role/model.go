package role

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission names checked by the API layer.
const (
	PermImportExecute = "import.execute"
	PermCatalogRead   = "catalog.read"
	PermCatalogWrite  = "catalog.write"
	PermStoreManage   = "store.manage"
	PermMemberRead    = "member.read"
)

type Role struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Label       string             `json:"label" bson:"label"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	IsSystem    bool               `json:"is_system" bson:"is_system"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
