package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

var testSpecs = []ColumnSpec{
	{Name: "id", Kind: table.KindString},
	{Name: "qty", Kind: table.KindNumber},
	{Name: "when", Kind: table.KindDate, Layout: "1/2/2006"},
}

func TestNormalizeCoercesTypes(t *testing.T) {
	raw := map[string][]string{
		"id":   {"o1"},
		"qty":  {"1,250.5"},
		"when": {"3/15/2024"},
	}

	tbl, rep, err := Normalize(raw, testSpecs)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rep.Total() != 0 {
		t.Errorf("failures = %d, want 0", rep.Total())
	}

	if v, _ := tbl.Cell(0, "qty").AsNumber(); v != 1250.5 {
		t.Errorf("qty = %v, want 1250.5 (comma separators should strip)", v)
	}
	d, ok := tbl.Cell(0, "when").AsDate()
	if !ok || !d.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("when = %v, want 2024-03-15", d)
	}
}

func TestNormalizeEmptyIsNullNotFailure(t *testing.T) {
	raw := map[string][]string{
		"id":   {"o1", "o2"},
		"qty":  {"", "5"},
		"when": {"", "4/1/2024"},
	}

	tbl, rep, err := Normalize(raw, testSpecs)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rep.Total() != 0 {
		t.Errorf("blank cells counted as failures: %v", rep.Failures)
	}
	if !tbl.Cell(0, "qty").IsNull() || !tbl.Cell(0, "when").IsNull() {
		t.Error("blank cells should normalize to null")
	}
}

func TestNormalizeCountsCoercionFailuresPerColumn(t *testing.T) {
	raw := map[string][]string{
		"id":   {"o1", "o2", "o3"},
		"qty":  {"abc", "5", "xyz"},
		"when": {"not a date", "4/1/2024", "5/1/2024"},
	}

	tbl, rep, err := Normalize(raw, testSpecs)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3 (failed cells keep their rows)", tbl.Len())
	}
	if rep.Failures["qty"] != 2 {
		t.Errorf("qty failures = %d, want 2", rep.Failures["qty"])
	}
	if rep.Failures["when"] != 1 {
		t.Errorf("when failures = %d, want 1", rep.Failures["when"])
	}
	if !tbl.Cell(0, "qty").IsNull() {
		t.Error("unparsable value should become null")
	}
}

func TestNormalizeMissingColumnIsSchemaError(t *testing.T) {
	raw := map[string][]string{"id": {"o1"}, "qty": {"5"}}

	_, _, err := Normalize(raw, testSpecs)
	var schemaErr *table.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "when" {
		t.Errorf("error column = %q, want when", schemaErr.Column)
	}
}

func TestNormalizeRaggedColumnsIsSchemaError(t *testing.T) {
	raw := map[string][]string{
		"id":   {"o1", "o2"},
		"qty":  {"5"},
		"when": {"4/1/2024", "5/1/2024"},
	}

	_, _, err := Normalize(raw, testSpecs)
	var schemaErr *table.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError for ragged input, got %v", err)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	raw := map[string][]string{"id": {}, "qty": {}, "when": {}}

	tbl, rep, err := Normalize(raw, testSpecs)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tbl.Len() != 0 || rep.Total() != 0 {
		t.Errorf("empty input should produce an empty table with no failures")
	}
}
