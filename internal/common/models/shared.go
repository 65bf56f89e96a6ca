package models

import (
	"time"
)

// FieldType classifies how an import target field is parsed and validated.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeInteger FieldType = "integer"
	FieldTypeDate    FieldType = "date"
	FieldTypeLookup  FieldType = "lookup"
)

// DataType selects which target schema an import run maps onto.
type DataType string

const (
	DataTypeInventory DataType = "inventory"
	DataTypeLoyalty   DataType = "loyalty"
)

// Log is the document shape written by the async DB log writer.
type Log struct {
	Message      string    `bson:"message"`
	IpAddress    string    `bson:"ip_address,omitempty"`
	StoreID      string    `bson:"store_id,omitempty"`
	LogLevelId   int       `bson:"log_level_id"`
	Caller       string    `bson:"caller,omitempty"`
	AppId        string    `bson:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}
