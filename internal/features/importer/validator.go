package importer

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	common_models "chainsync/internal/common/models"
	"chainsync/internal/features/catalog"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// headerOffset turns a zero-based data row index into the row number shown
// to the user: +1 for the header row, +1 for 1-based counting.
const headerOffset = 2

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	time.RFC3339,
}

// categoryCache resolves category names to IDs for the duration of one
// validation run. It is created per run and passed explicitly so that
// concurrent validations never share lookup state.
type categoryCache struct {
	repo    catalog.CategoryRepository
	byName  map[string]primitive.ObjectID
	created []string
}

func newCategoryCache(repo catalog.CategoryRepository) *categoryCache {
	return &categoryCache{
		repo:   repo,
		byName: make(map[string]primitive.ObjectID),
	}
}

// resolve returns the category ID for name, creating the category on a
// miss. Lookup is case-insensitive: "Fruit" and "fruit" share one ID.
func (c *categoryCache) resolve(ctx context.Context, name string) (primitive.ObjectID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := c.byName[key]; ok {
		return id, nil
	}

	existing, err := c.repo.FindByNameFold(ctx, name)
	if err == nil {
		c.byName[key] = existing.ID
		return existing.ID, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, err
	}

	category := &catalog.Category{Name: strings.TrimSpace(name)}
	if err := c.repo.Create(ctx, category); err != nil {
		return primitive.NilObjectID, err
	}

	c.byName[key] = category.ID
	c.created = append(c.created, category.Name)
	return category.ID, nil
}

type Validator struct {
	CategoryRepo catalog.CategoryRepository
	Transform    *RowTransform
	Logger       *zap.Logger
}

func NewValidator(categoryRepo catalog.CategoryRepository, transform *RowTransform, logger *zap.Logger) *Validator {
	return &Validator{
		CategoryRepo: categoryRepo,
		Transform:    transform,
		Logger:       logger,
	}
}

// ValidateRows applies the finalized mapping to every raw row and enforces
// the target schema. Required-field failures skip the row; optional-field
// failures record an error and leave the field unset. Rows that pass land
// in MappedData even when the result as a whole is not a success, so a
// partial import stays possible.
func (v *Validator) ValidateRows(ctx context.Context, rows []RawRow, mappings []ColumnMapping, dataType common_models.DataType) *ValidationResult {
	result := &ValidationResult{
		TotalRows:     len(rows),
		Errors:        []ValidationError{},
		MissingFields: []MissingField{},
		MappedData:    []ValidatedRecord{},
		NewCategories: []string{},
	}

	cache := newCategoryCache(v.CategoryRepo)
	byField := MappedColumns(mappings)

	for i, raw := range rows {
		rowNum := i + headerOffset

		row, err := v.Transform.Apply(raw)
		if err != nil {
			// A broken transform degrades to the untouched row; the import
			// must not die because of a site-local script.
			result.Errors = append(result.Errors, ValidationError{
				Row:    rowNum,
				Reason: "transform script failed: " + err.Error(),
			})
			row = raw
		}

		record, ok := v.validateRow(ctx, rowNum, row, byField, dataType, cache, result)
		if ok {
			result.MappedData = append(result.MappedData, record)
		}
	}

	result.ProcessedRows = len(result.MappedData)
	result.SkippedRows = result.TotalRows - result.ProcessedRows
	result.NewCategories = cache.created
	result.Success = len(result.Errors) == 0 && len(result.MissingFields) == 0

	if v.Logger != nil {
		v.Logger.Info("validation run finished",
			zap.String("dataType", string(dataType)),
			zap.Int("totalRows", result.TotalRows),
			zap.Int("processedRows", result.ProcessedRows),
			zap.Int("skippedRows", result.SkippedRows),
			zap.Int("errors", len(result.Errors)),
		)
	}

	return result
}

// validateRow checks one row against every target field spec. The bool
// result says whether the row belongs in MappedData.
func (v *Validator) validateRow(ctx context.Context, rowNum int, row RawRow, byField map[string]string, dataType common_models.DataType, cache *categoryCache, result *ValidationResult) (ValidatedRecord, bool) {
	record := ValidatedRecord{Row: rowNum}

	values := make(map[string]string)
	ints := make(map[string]int)
	dates := make(map[string]*time.Time)

	for _, spec := range TargetFields(dataType) {
		raw := ""
		if col, mapped := byField[spec.Name]; mapped {
			raw = strings.TrimSpace(row[col])
		}

		if raw == "" {
			if spec.Required {
				result.MissingFields = append(result.MissingFields, MissingField{
					Row:      rowNum,
					Field:    spec.Name,
					Required: true,
				})
				return record, false
			}
			// Optional and absent: the field simply stays unset.
			continue
		}

		switch spec.Type {
		case common_models.FieldTypeNumber:
			// Prices are validated numerically but stored as entered
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Row: rowNum, Field: spec.Name, Value: raw, Reason: "not a valid number",
				})
				if spec.Required {
					return record, false
				}
				continue
			}
			values[spec.Name] = raw

		case common_models.FieldTypeInteger:
			n, err := strconv.Atoi(raw)
			if err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Row: rowNum, Field: spec.Name, Value: raw, Reason: "not a valid whole number",
				})
				if spec.Required {
					return record, false
				}
				continue
			}
			ints[spec.Name] = n

		case common_models.FieldTypeDate:
			t, err := parseDate(raw)
			if err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Row: rowNum, Field: spec.Name, Value: raw, Reason: "not a recognizable date",
				})
				if spec.Required {
					return record, false
				}
				continue
			}
			dates[spec.Name] = t

		case common_models.FieldTypeLookup:
			id, err := cache.resolve(ctx, raw)
			if err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Row: rowNum, Field: spec.Name, Value: raw, Reason: "failed to resolve category: " + err.Error(),
				})
				return record, false
			}
			values[spec.Name] = id.Hex()

		default:
			values[spec.Name] = raw
		}
	}

	switch dataType {
	case common_models.DataTypeLoyalty:
		record.Member = &MemberRecord{
			LoyaltyID: values[FieldLoyaltyID],
			Name:      values[FieldName],
			Email:     values[FieldEmail],
			Phone:     values[FieldPhone],
			JoinedAt:  dates[FieldJoinedDate],
		}
		if n, ok := ints[FieldPoints]; ok {
			record.Member.Points = &n
		}
	default:
		categoryID, _ := primitive.ObjectIDFromHex(values[FieldCategory])
		record.Product = &ProductRecord{
			Name:        values[FieldName],
			SKU:         values[FieldSKU],
			CategoryID:  categoryID,
			Price:       values[FieldPrice],
			Stock:       ints[FieldStock],
			Description: values[FieldDescription],
			Supplier:    values[FieldSupplier],
			CostPrice:   values[FieldCostPrice],
			ExpiryDate:  dates[FieldExpiryDate],
		}
	}

	return record, true
}

func parseDate(raw string) (*time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized date format")
}
