package importer

import (
	common_models "chainsync/internal/common/models"
)

// Target field names shared by the mapper, validator and upsert engine.
const (
	FieldName        = "name"
	FieldSKU         = "sku"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldStock       = "stock"
	FieldDescription = "description"
	FieldCostPrice   = "cost_price"
	FieldExpiryDate  = "expiry_date"
	FieldSupplier    = "supplier"

	FieldLoyaltyID  = "loyalty_id"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldPoints     = "points"
	FieldJoinedDate = "joined_date"
)

var inventoryFields = []TargetFieldSpec{
	{Name: FieldName, Label: "Product Name", Required: true, Type: common_models.FieldTypeText,
		Synonyms: []string{"product name", "product", "item", "item name", "title"}},
	{Name: FieldSKU, Label: "SKU", Required: true, Type: common_models.FieldTypeText,
		Synonyms: []string{"sku", "barcode", "product code", "item code", "article number"}},
	{Name: FieldCategory, Label: "Category", Required: true, Type: common_models.FieldTypeLookup,
		Synonyms: []string{"category", "product category", "department", "group"}},
	{Name: FieldPrice, Label: "Price", Required: true, Type: common_models.FieldTypeNumber,
		Synonyms: []string{"price", "unit price", "selling price", "retail price", "amount"}},
	{Name: FieldStock, Label: "Stock", Required: true, Type: common_models.FieldTypeInteger,
		Synonyms: []string{"stock", "quantity", "qty", "units", "on hand", "inventory"}},
	{Name: FieldDescription, Label: "Description", Required: false, Type: common_models.FieldTypeText,
		Synonyms: []string{"description", "details", "notes"}},
	{Name: FieldCostPrice, Label: "Cost Price", Required: false, Type: common_models.FieldTypeNumber,
		Synonyms: []string{"cost price", "cost", "purchase price", "buy price"}},
	{Name: FieldExpiryDate, Label: "Expiry Date", Required: false, Type: common_models.FieldTypeDate,
		Synonyms: []string{"expiry date", "expiry", "expiration", "best before", "use by"}},
	{Name: FieldSupplier, Label: "Supplier", Required: false, Type: common_models.FieldTypeText,
		Synonyms: []string{"supplier", "vendor", "manufacturer", "brand"}},
}

var loyaltyFields = []TargetFieldSpec{
	{Name: FieldLoyaltyID, Label: "Loyalty ID", Required: true, Type: common_models.FieldTypeText,
		Synonyms: []string{"loyalty id", "member id", "card number", "membership number", "customer id"}},
	{Name: FieldName, Label: "Member Name", Required: true, Type: common_models.FieldTypeText,
		Synonyms: []string{"name", "member name", "full name", "customer name", "customer"}},
	{Name: FieldEmail, Label: "Email", Required: false, Type: common_models.FieldTypeText,
		Synonyms: []string{"email", "email address", "e-mail"}},
	{Name: FieldPhone, Label: "Phone", Required: false, Type: common_models.FieldTypeText,
		Synonyms: []string{"phone", "phone number", "mobile", "telephone", "contact"}},
	{Name: FieldPoints, Label: "Points", Required: false, Type: common_models.FieldTypeInteger,
		Synonyms: []string{"points", "loyalty points", "balance", "reward points"}},
	{Name: FieldJoinedDate, Label: "Joined Date", Required: false, Type: common_models.FieldTypeDate,
		Synonyms: []string{"joined date", "joined", "signup date", "enrolled", "member since"}},
}

// TargetFields returns the static target schema for a data type.
func TargetFields(dataType common_models.DataType) []TargetFieldSpec {
	switch dataType {
	case common_models.DataTypeLoyalty:
		return loyaltyFields
	default:
		return inventoryFields
	}
}

// RequiredFields returns the names of the required target fields.
func RequiredFields(dataType common_models.DataType) []string {
	var names []string
	for _, f := range TargetFields(dataType) {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}
