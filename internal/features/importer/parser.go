package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions the parser cannot read.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

// ParseFile reads the whole spreadsheet: header row plus every data row.
// Any failure here is fatal to the analyze step; nothing partial is returned.
func ParseFile(file io.Reader, filename string) ([]string, []RawRow, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return parseCSV(file)
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return parseExcel(file)
	default:
		return nil, nil, ErrUnsupportedFormat
	}
}

func parseCSV(file io.Reader) ([]string, []RawRow, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := make(RawRow)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = value
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

func parseExcel(file io.Reader) ([]string, []RawRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found in Excel file")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	if len(cells) == 0 {
		return nil, nil, fmt.Errorf("Excel file is empty")
	}

	headers := cells[0]
	var rows []RawRow

	for i := 1; i < len(cells); i++ {
		row := make(RawRow)
		for j, cell := range cells[i] {
			if j < len(headers) {
				row[headers[j]] = cell
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// SampleRows returns at most n rows for the mapping preview.
func SampleRows(rows []RawRow, n int) []RawRow {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}
