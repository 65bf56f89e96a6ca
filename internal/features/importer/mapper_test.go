package importer

import (
	"testing"
)

func mappingFor(t *testing.T, mappings []ColumnMapping, column string) ColumnMapping {
	t.Helper()
	for _, m := range mappings {
		if m.SourceColumn == column {
			return m
		}
	}
	t.Fatalf("no mapping for column %q", column)
	return ColumnMapping{}
}

func TestSuggestMappings(t *testing.T) {
	tests := []struct {
		name      string
		headers   []string
		dataType  DataType
		wantField map[string]string // column -> expected target field ("" = unmapped)
	}{
		{
			name:     "exact matches",
			headers:  []string{"name", "sku", "category", "price", "stock"},
			dataType: DataTypeInventory,
			wantField: map[string]string{
				"name":     FieldName,
				"sku":      FieldSKU,
				"category": FieldCategory,
				"price":    FieldPrice,
				"stock":    FieldStock,
			},
		},
		{
			name:     "synonyms and case folding",
			headers:  []string{"Product Name", "Item Code", "Qty", "Unit Price"},
			dataType: DataTypeInventory,
			wantField: map[string]string{
				"Product Name": FieldName,
				"Item Code":    FieldSKU,
				"Qty":          FieldStock,
				"Unit Price":   FieldPrice,
			},
		},
		{
			name:     "unrelated column stays unmapped",
			headers:  []string{"name", "sku", "warehouse zone"},
			dataType: DataTypeInventory,
			wantField: map[string]string{
				"name":           FieldName,
				"sku":            FieldSKU,
				"warehouse zone": "",
			},
		},
		{
			name:     "loyalty synonyms",
			headers:  []string{"Member ID", "Full Name", "E-Mail", "Reward Points"},
			dataType: DataTypeLoyalty,
			wantField: map[string]string{
				"Member ID":     FieldLoyaltyID,
				"Full Name":     FieldName,
				"E-Mail":        FieldEmail,
				"Reward Points": FieldPoints,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestMappings(tt.headers, tt.dataType)
			if len(got) != len(tt.headers) {
				t.Fatalf("expected %d mappings, got %d", len(tt.headers), len(got))
			}
			for column, want := range tt.wantField {
				m := mappingFor(t, got, column)
				if m.TargetField != want {
					t.Errorf("column %q: mapped to %q, want %q", column, m.TargetField, want)
				}
			}
		})
	}
}

func TestSuggestMappingsConfidenceThreshold(t *testing.T) {
	// "description" contains "desc"-like partial terms but a header that
	// only scores a weak partial match must not be pre-selected.
	got := SuggestMappings([]string{"misc notes"}, DataTypeInventory)
	m := mappingFor(t, got, "misc notes")
	if m.TargetField != "" {
		t.Errorf("weak match pre-selected: %q with confidence %.2f", m.TargetField, m.Confidence)
	}
}

func TestSuggestMappingsDuplicateTarget(t *testing.T) {
	// Two columns competing for the same field: the higher confidence
	// wins, the loser stays unmapped.
	got := SuggestMappings([]string{"product title", "name"}, DataTypeInventory)

	winner := mappingFor(t, got, "name")
	if winner.TargetField != FieldName {
		t.Fatalf("exact header lost the field: got %q", winner.TargetField)
	}
	loser := mappingFor(t, got, "product title")
	if loser.TargetField == FieldName {
		t.Error("both columns mapped to the same field")
	}
}

func TestSuggestMappingsDuplicateTargetTie(t *testing.T) {
	// Equal confidence: the leftmost column keeps the field.
	got := SuggestMappings([]string{"sku", "SKU"}, DataTypeInventory)

	first := mappingFor(t, got, "sku")
	second := mappingFor(t, got, "SKU")
	if first.TargetField != FieldSKU {
		t.Errorf("leftmost column lost the tie: got %q", first.TargetField)
	}
	if second.TargetField != "" {
		t.Errorf("rightmost duplicate should be unmapped, got %q", second.TargetField)
	}
}

func TestSuggestMappingsRequiredFlag(t *testing.T) {
	got := SuggestMappings([]string{"sku", "description"}, DataTypeInventory)

	if m := mappingFor(t, got, "sku"); !m.Required {
		t.Error("sku mapping should be flagged required")
	}
	if m := mappingFor(t, got, "description"); m.Required {
		t.Error("description mapping should not be flagged required")
	}
}

func TestMappedColumns(t *testing.T) {
	mappings := []ColumnMapping{
		{SourceColumn: "Product Name", TargetField: FieldName},
		{SourceColumn: "Item Code", TargetField: FieldSKU},
		{SourceColumn: "ignored", TargetField: ""},
	}

	cols := MappedColumns(mappings)
	if cols[FieldName] != "Product Name" {
		t.Errorf("name column = %q", cols[FieldName])
	}
	if cols[FieldSKU] != "Item Code" {
		t.Errorf("sku column = %q", cols[FieldSKU])
	}
	if _, ok := cols[""]; ok {
		t.Error("unmapped column leaked into the field map")
	}
}
