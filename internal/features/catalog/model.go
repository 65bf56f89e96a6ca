package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is chain-wide; the SKU is its natural key and is unique across
// the whole catalog, not per store.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	SKU         string             `json:"sku" bson:"sku"`
	CategoryID  primitive.ObjectID `json:"category_id" bson:"category_id"`
	Price       string             `json:"price" bson:"price"`
	CostPrice   string             `json:"cost_price,omitempty" bson:"cost_price,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Supplier    string             `json:"supplier,omitempty" bson:"supplier,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type Category struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Slug      string             `json:"slug" bson:"slug"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// InventoryLevel is the store-scoped association record for a product,
// upserted by the composite key (product_id, store_id).
type InventoryLevel struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID  primitive.ObjectID `json:"product_id" bson:"product_id"`
	StoreID    primitive.ObjectID `json:"store_id" bson:"store_id"`
	Quantity   int                `json:"quantity" bson:"quantity"`
	ExpiryDate *time.Time         `json:"expiry_date,omitempty" bson:"expiry_date,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
