package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseFileCSV(t *testing.T) {
	input := "sku,name,price\nS-1,Cola,1.50\nS-2,Water,0.90\n"

	headers, rows, err := ParseFile(strings.NewReader(input), "stock.csv")
	if err != nil {
		t.Fatal(err)
	}

	if len(headers) != 3 || headers[0] != "sku" {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["name"] != "Cola" || rows[1]["price"] != "0.90" {
		t.Errorf("rows parsed wrong: %v", rows)
	}
}

func TestParseFileCSVRaggedRow(t *testing.T) {
	// csv.Reader rejects rows with a different field count
	input := "sku,name\nS-1,Cola,extra\n"

	if _, _, err := ParseFile(strings.NewReader(input), "stock.csv"); err == nil {
		t.Error("expected an error for a ragged row")
	}
}

func TestParseFileExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]interface{}{
		{"sku", "name", "stock"},
		{"S-1", "Cola", 10},
		{"S-2", "Water", 200},
	}
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	headers, rows, err := ParseFile(&buf, "stock.xlsx")
	if err != nil {
		t.Fatal(err)
	}

	if len(headers) != 3 || headers[2] != "stock" {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["sku"] != "S-1" || rows[1]["stock"] != "200" {
		t.Errorf("rows parsed wrong: %v", rows)
	}
}

func TestParseFileUnsupportedFormat(t *testing.T) {
	_, _, err := ParseFile(strings.NewReader("{}"), "data.json")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSampleRows(t *testing.T) {
	rows := []RawRow{{"a": "1"}, {"a": "2"}, {"a": "3"}}

	if got := SampleRows(rows, 5); len(got) != 3 {
		t.Errorf("sample of small set = %d rows, want all 3", len(got))
	}
	if got := SampleRows(rows, 2); len(got) != 2 {
		t.Errorf("sample = %d rows, want 2", len(got))
	}
}
