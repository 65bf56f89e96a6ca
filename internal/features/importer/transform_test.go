package importer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transform.tengo")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRowTransformDisabled(t *testing.T) {
	tr, err := NewRowTransform("")
	if err != nil {
		t.Fatal(err)
	}
	if tr != nil {
		t.Fatal("empty path should disable the transform")
	}

	row := RawRow{"sku": "s-1"}
	got, err := tr.Apply(row)
	if err != nil {
		t.Fatal(err)
	}
	if got["sku"] != "s-1" {
		t.Errorf("nil transform changed the row: %v", got)
	}
}

func TestRowTransformRewritesCells(t *testing.T) {
	path := writeScript(t, `
text := import("text")
row.sku = text.to_upper(text.trim_space(row.sku))
`)

	tr, err := NewRowTransform(path)
	if err != nil {
		t.Fatal(err)
	}

	row := RawRow{"sku": "  ab-123 ", "name": "Cola"}
	got, err := tr.Apply(row)
	if err != nil {
		t.Fatal(err)
	}

	if got["sku"] != "AB-123" {
		t.Errorf("sku = %q, want AB-123", got["sku"])
	}
	if got["name"] != "Cola" {
		t.Errorf("untouched cell changed: %q", got["name"])
	}
	if row["sku"] != "  ab-123 " {
		t.Error("input row must not be mutated")
	}
}

func TestRowTransformCompileError(t *testing.T) {
	path := writeScript(t, `this is not a program`)

	if _, err := NewRowTransform(path); err == nil {
		t.Error("expected a compile error")
	}
}
