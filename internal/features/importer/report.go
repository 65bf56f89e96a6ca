package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
)

// ErrorReportCSV renders a validation result as a downloadable CSV so the
// uploader can fix the source file and retry. Rows are sorted by source
// row number, errors before missing fields on the same row.
func ErrorReportCSV(result *ValidationResult) ([]byte, error) {
	type line struct {
		row    int
		field  string
		value  string
		reason string
	}

	lines := make([]line, 0, len(result.Errors)+len(result.MissingFields))
	for _, e := range result.Errors {
		lines = append(lines, line{row: e.Row, field: e.Field, value: e.Value, reason: e.Reason})
	}
	for _, m := range result.MissingFields {
		reason := "missing optional value"
		if m.Required {
			reason = "missing required value"
		}
		lines = append(lines, line{row: m.Row, field: m.Field, reason: reason})
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].row < lines[j].row })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"row", "field", "value", "reason"}); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := w.Write([]string{fmt.Sprintf("%d", l.row), l.field, l.value, l.reason}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
