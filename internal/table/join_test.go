package table

import (
	"errors"
	"testing"
)

func joinFixture() (*Table, *Table) {
	facts := New([]string{"customer_id", "amount"})
	facts.Append(Row{"customer_id": String("c1"), "amount": Number(10)})
	facts.Append(Row{"customer_id": String("c2"), "amount": Number(20)})
	facts.Append(Row{"customer_id": String("c9"), "amount": Number(30)})

	dim := New([]string{"customer_id", "customer_name"})
	dim.Append(Row{"customer_id": String("c1"), "customer_name": String("Acme")})
	dim.Append(Row{"customer_id": String("c2"), "customer_name": String("Globex")})
	return facts, dim
}

func TestLeftJoinKeepsEveryFactRow(t *testing.T) {
	facts, dim := joinFixture()

	joined, unmatched, err := LeftJoin(facts, dim, "customer_id", []string{"customer_name"})
	if err != nil {
		t.Fatalf("LeftJoin: %v", err)
	}
	if joined.Len() != facts.Len() {
		t.Fatalf("joined %d rows, want %d", joined.Len(), facts.Len())
	}
	if unmatched != 1 {
		t.Errorf("unmatched = %d, want 1", unmatched)
	}

	name, _ := joined.Cell(0, "customer_name").AsString()
	if name != "Acme" {
		t.Errorf("row 0 customer_name = %q, want Acme", name)
	}
	if !joined.Cell(2, "customer_name").IsNull() {
		t.Error("unmatched row should carry a null dimension cell")
	}
	if v, _ := joined.Cell(2, "amount").AsNumber(); v != 30 {
		t.Error("unmatched row lost its fact cells")
	}
}

func TestLeftJoinRejectsDuplicateDimensionKeys(t *testing.T) {
	facts, dim := joinFixture()
	dim.Append(Row{"customer_id": String("c1"), "customer_name": String("Acme again")})

	_, _, err := LeftJoin(facts, dim, "customer_id", []string{"customer_name"})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "customer_id" {
		t.Errorf("error column = %q, want customer_id", schemaErr.Column)
	}
}

func TestLeftJoinMissingKeyColumn(t *testing.T) {
	facts, dim := joinFixture()

	if _, _, err := LeftJoin(facts, dim, "nope", []string{"customer_name"}); err == nil {
		t.Error("missing fact key should be a schema error")
	}
	if _, _, err := LeftJoin(facts, dim, "customer_id", []string{"city"}); err == nil {
		t.Error("missing dimension column should be a schema error")
	}
}
