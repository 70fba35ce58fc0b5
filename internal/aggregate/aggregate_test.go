package aggregate

import (
	"testing"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

func salesFixture() *table.Table {
	t := table.New([]string{"category", "order_id", "amount"})
	rows := []struct {
		cat, id string
		amount  table.Cell
	}{
		{"B", "o1", table.Number(10)},
		{"A", "o2", table.Number(20)},
		{"B", "o3", table.Number(5)},
		{"C", "o4", table.Number(40)},
		{"A", "o2", table.Number(15)}, // repeat order id
	}
	for _, r := range rows {
		t.Append(table.Row{
			"category": table.String(r.cat),
			"order_id": table.String(r.id),
			"amount":   r.amount,
		})
	}
	return t
}

func TestAggregatePreservesEncounterOrder(t *testing.T) {
	out, err := Aggregate(salesFixture(), []string{"category"}, []Metric{
		{Name: "revenue", Column: "amount", Op: OpSum},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	want := []string{"B", "A", "C"}
	if out.Len() != len(want) {
		t.Fatalf("groups = %d, want %d", out.Len(), len(want))
	}
	for i, w := range want {
		got, _ := out.Cell(i, "category").AsString()
		if got != w {
			t.Errorf("group %d = %q, want %q (first-occurrence order)", i, got, w)
		}
	}
}

func TestAggregateOps(t *testing.T) {
	out, err := Aggregate(salesFixture(), []string{"category"}, []Metric{
		{Name: "orders", Column: "order_id", Op: OpCount},
		{Name: "unique_orders", Column: "order_id", Op: OpUniqueCount},
		{Name: "revenue", Column: "amount", Op: OpSum},
		{Name: "avg_amount", Column: "amount", Op: OpMean},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// group A: rows o2 (20) and o2 (15)
	if v, _ := out.Cell(1, "orders").AsNumber(); v != 2 {
		t.Errorf("A orders = %v, want 2", v)
	}
	if v, _ := out.Cell(1, "unique_orders").AsNumber(); v != 1 {
		t.Errorf("A unique_orders = %v, want 1", v)
	}
	if v, _ := out.Cell(1, "revenue").AsNumber(); v != 35 {
		t.Errorf("A revenue = %v, want 35", v)
	}
	if v, _ := out.Cell(1, "avg_amount").AsNumber(); v != 17.5 {
		t.Errorf("A avg_amount = %v, want 17.5", v)
	}
}

func TestAggregateNullHandling(t *testing.T) {
	tbl := table.New([]string{"category", "amount"})
	tbl.Append(table.Row{"category": table.String("A"), "amount": table.Null()})
	tbl.Append(table.Row{"category": table.String("A"), "amount": table.Number(10)})
	tbl.Append(table.Row{"category": table.Null(), "amount": table.Number(99)})
	tbl.Append(table.Row{"category": table.String("B"), "amount": table.Null()})

	out, err := Aggregate(tbl, []string{"category"}, []Metric{
		{Name: "n", Column: "amount", Op: OpCount},
		{Name: "total", Column: "amount", Op: OpSum},
		{Name: "avg", Column: "amount", Op: OpMean},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	// the null-key row forms no group of its own
	if out.Len() != 2 {
		t.Fatalf("groups = %d, want 2", out.Len())
	}
	if v, _ := out.Cell(0, "n").AsNumber(); v != 1 {
		t.Errorf("A count = %v, want 1 (nulls not counted)", v)
	}
	if v, _ := out.Cell(0, "total").AsNumber(); v != 10 {
		t.Errorf("A total = %v, want 10", v)
	}
	// group B: all amounts null
	if v, _ := out.Cell(1, "total").AsNumber(); v != 0 {
		t.Errorf("B total = %v, want 0", v)
	}
	if !out.Cell(1, "avg").IsNull() {
		t.Error("mean of an all-null group should be null")
	}
}

func TestAggregateDistinguishesNumberAndStringKeys(t *testing.T) {
	tbl := table.New([]string{"k", "v"})
	tbl.Append(table.Row{"k": table.Number(1), "v": table.Number(1)})
	tbl.Append(table.Row{"k": table.String("1"), "v": table.Number(1)})

	out, err := Aggregate(tbl, []string{"k"}, []Metric{{Name: "n", Column: "v", Op: OpCount}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if out.Len() != 2 {
		t.Errorf("number 1 and string \"1\" collapsed into %d group(s), want 2", out.Len())
	}
}

func TestAggregateValidation(t *testing.T) {
	tbl := salesFixture()

	if _, err := Aggregate(tbl, nil, nil); err == nil {
		t.Error("no group keys should be rejected")
	}
	if _, err := Aggregate(tbl, []string{"missing"}, nil); err == nil {
		t.Error("missing group key should be rejected")
	}
	if _, err := Aggregate(tbl, []string{"category"}, []Metric{{Name: "x", Column: "missing", Op: OpSum}}); err == nil {
		t.Error("missing metric column should be rejected")
	}
	if _, err := Aggregate(tbl, []string{"category"}, []Metric{{Name: "x", Column: "amount", Op: "median"}}); err == nil {
		t.Error("unknown op should be rejected")
	}
}
