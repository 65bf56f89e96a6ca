package importer

import (
	"strings"

	common_models "chainsync/internal/common/models"
)

// mappingThreshold is the confidence above which a suggestion is
// pre-selected into the working mapping. At or below it the column is left
// unmapped and the caller has to choose explicitly.
const mappingThreshold = 0.7

const (
	confidenceExact   = 1.0
	confidenceSynonym = 0.85
	confidencePartial = 0.55
)

// SuggestMappings scores every source column against the target schema and
// returns one ColumnMapping per column, in header order.
//
// When two columns claim the same target field, the higher confidence wins;
// on equal confidence the leftmost column wins. The losing column is left
// unmapped. This keeps inference deterministic regardless of map iteration.
func SuggestMappings(headers []string, dataType common_models.DataType) []ColumnMapping {
	specs := TargetFields(dataType)

	mappings := make([]ColumnMapping, len(headers))
	for i, header := range headers {
		field, confidence := bestTarget(header, specs)
		mappings[i] = ColumnMapping{
			SourceColumn: header,
			TargetField:  field,
			Confidence:   confidence,
		}
	}

	// Resolve duplicate claims before applying the threshold
	claimed := make(map[string]int) // target field -> winning column index
	for i := range mappings {
		field := mappings[i].TargetField
		if field == "" {
			continue
		}
		winner, ok := claimed[field]
		if !ok {
			claimed[field] = i
			continue
		}
		if mappings[i].Confidence > mappings[winner].Confidence {
			mappings[winner].TargetField = ""
			claimed[field] = i
		} else {
			mappings[i].TargetField = ""
		}
	}

	for i := range mappings {
		if mappings[i].Confidence <= mappingThreshold {
			mappings[i].TargetField = ""
		}
		if mappings[i].TargetField != "" {
			mappings[i].Required = isRequired(mappings[i].TargetField, specs)
		}
	}

	return mappings
}

func bestTarget(header string, specs []TargetFieldSpec) (string, float64) {
	var bestField string
	var bestScore float64

	for _, spec := range specs {
		score := scoreColumn(header, spec)
		if score > bestScore {
			bestScore = score
			bestField = spec.Name
		}
	}

	if bestScore == 0 {
		return "", 0
	}
	return bestField, bestScore
}

func scoreColumn(header string, spec TargetFieldSpec) float64 {
	col := normalizeHeader(header)
	if col == "" {
		return 0
	}

	if col == normalizeHeader(spec.Name) || col == normalizeHeader(spec.Label) {
		return confidenceExact
	}

	for _, syn := range spec.Synonyms {
		if col == normalizeHeader(syn) {
			return confidenceSynonym
		}
	}

	// Partial match: the column contains a synonym as a whole word, or the
	// other way round ("Price (USD)" vs "price"). Scores below the
	// pre-selection threshold so the caller has to confirm.
	for _, syn := range append([]string{spec.Name, spec.Label}, spec.Synonyms...) {
		s := normalizeHeader(syn)
		if s == "" {
			continue
		}
		if strings.Contains(col, s) || strings.Contains(s, col) {
			return confidencePartial
		}
	}

	return 0
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func isRequired(field string, specs []TargetFieldSpec) bool {
	for _, spec := range specs {
		if spec.Name == field {
			return spec.Required
		}
	}
	return false
}

// MappedColumns inverts a finalized mapping to target field -> source column.
// Later columns never silently override earlier ones; duplicates were
// resolved at suggestion time and explicit overrides are one-to-one.
func MappedColumns(mappings []ColumnMapping) map[string]string {
	byField := make(map[string]string)
	for _, m := range mappings {
		if m.TargetField == "" {
			continue
		}
		if _, taken := byField[m.TargetField]; !taken {
			byField[m.TargetField] = m.SourceColumn
		}
	}
	return byField
}
