package importer

import (
	"time"

	common_models "chainsync/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DataType aliases the shared model type so callers inside the feature do
// not need the common_models import for every signature.
type DataType = common_models.DataType

const (
	DataTypeInventory = common_models.DataTypeInventory
	DataTypeLoyalty   = common_models.DataTypeLoyalty
)

// RawRow maps a source column name to the raw cell value for one data row.
// Column order is carried by the header slice, not by the map.
type RawRow map[string]string

// ColumnMapping ties one source column to a target field. An empty
// TargetField means the column is not imported.
type ColumnMapping struct {
	SourceColumn string  `json:"source_column"`
	TargetField  string  `json:"target_field"`
	Confidence   float64 `json:"confidence"`
	Required     bool    `json:"required"`
}

// TargetFieldSpec describes one field of the target schema for a data type.
type TargetFieldSpec struct {
	Name     string                  `json:"name"`
	Label    string                  `json:"label"`
	Required bool                    `json:"required"`
	Type     common_models.FieldType `json:"type"`
	Synonyms []string                `json:"-"`
}

// ProductRecord is a fully validated inventory row ready for upsert.
type ProductRecord struct {
	Name        string             `json:"name"`
	SKU         string             `json:"sku"`
	CategoryID  primitive.ObjectID `json:"category_id"`
	Price       string             `json:"price"`
	Stock       int                `json:"stock"`
	Description string             `json:"description,omitempty"`
	Supplier    string             `json:"supplier,omitempty"`
	CostPrice   string             `json:"cost_price,omitempty"`
	ExpiryDate  *time.Time         `json:"expiry_date,omitempty"`
}

// MemberRecord is a fully validated loyalty row ready for upsert. Points
// is a pointer so an absent points column never zeroes a stored balance.
type MemberRecord struct {
	LoyaltyID string     `json:"loyalty_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Points    *int       `json:"points,omitempty"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
}

// ValidatedRecord wraps whichever record shape the run's data type produces.
// Row is the reported source row number (header offset included).
type ValidatedRecord struct {
	Row     int            `json:"row"`
	Product *ProductRecord `json:"product,omitempty"`
	Member  *MemberRecord  `json:"member,omitempty"`
}

type ValidationError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

type MissingField struct {
	Row      int    `json:"row"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
}

type ValidationResult struct {
	Success       bool              `json:"success"`
	TotalRows     int               `json:"total_rows"`
	ProcessedRows int               `json:"processed_rows"`
	SkippedRows   int               `json:"skipped_rows"`
	Errors        []ValidationError `json:"errors"`
	MissingFields []MissingField    `json:"missing_fields"`
	MappedData    []ValidatedRecord `json:"mapped_data"`
	NewCategories []string          `json:"new_categories"`
}

type FailedRecord struct {
	Record ValidatedRecord `json:"record"`
	Error  string          `json:"error"`
}

type ImportResult struct {
	Success       bool           `json:"success"`
	ImportedCount int            `json:"imported_count"`
	FailedRecords []FailedRecord `json:"failed_records"`
}

// AnalyzeResult is what the upload step hands back to the caller.
type AnalyzeResult struct {
	Headers     []string        `json:"headers"`
	SampleRows  []RawRow        `json:"sample_rows"`
	TotalRows   int             `json:"total_rows"`
	Suggestions []ColumnMapping `json:"suggestions"`
}

// Progress is one batch-level progress event pushed during an import run.
type Progress struct {
	SessionID    string `json:"session_id"`
	Batch        int    `json:"batch"`
	TotalBatches int    `json:"total_batches"`
	Imported     int    `json:"imported"`
	Failed       int    `json:"failed"`
}
