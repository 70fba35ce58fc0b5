package table

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestCellZeroValueIsNull(t *testing.T) {
	var c Cell
	if !c.IsNull() {
		t.Fatal("zero value cell should be null")
	}
	if _, ok := c.AsNumber(); ok {
		t.Error("null cell should not read as number")
	}
}

func TestCellKeysDistinguishValues(t *testing.T) {
	cases := []struct {
		a, b Cell
	}{
		{Number(0), Null()},
		{String(""), Null()},
		{Number(1), Number(1.5)},
		{String("1"), String("1.5")},
	}
	for _, tc := range cases {
		if tc.a.Key() == tc.b.Key() {
			t.Errorf("cells %v and %v produced the same key %q", tc.a, tc.b, tc.a.Key())
		}
	}
}

func TestCellJSON(t *testing.T) {
	day := time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)
	cases := []struct {
		cell Cell
		want string
	}{
		{Null(), "null"},
		{Number(42.5), "42.5"},
		{String("Mumbai"), `"Mumbai"`},
		{Date(day), `"2024-03-05"`},
	}
	for _, tc := range cases {
		got, err := json.Marshal(tc.cell)
		if err != nil {
			t.Fatalf("marshal %v: %v", tc.cell, err)
		}
		if string(got) != tc.want {
			t.Errorf("marshal %v = %s, want %s", tc.cell, got, tc.want)
		}
	}
}

func TestAppendIgnoresUndeclaredColumns(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.Append(Row{"a": Number(1), "b": Number(2)})

	if !tbl.Cell(0, "b").IsNull() {
		t.Error("undeclared column should read back null")
	}
	if v, _ := tbl.Cell(0, "a").AsNumber(); v != 1 {
		t.Errorf("a = %v, want 1", v)
	}
}

func TestSortByNumberStableWithNullsLast(t *testing.T) {
	tbl := New([]string{"name", "v"})
	tbl.Append(Row{"name": String("a"), "v": Number(2)})
	tbl.Append(Row{"name": String("b"), "v": Null()})
	tbl.Append(Row{"name": String("c"), "v": Number(5)})
	tbl.Append(Row{"name": String("d"), "v": Number(2)})

	sorted, err := tbl.SortByNumber("v", true)
	if err != nil {
		t.Fatalf("SortByNumber: %v", err)
	}

	var got []string
	for i := 0; i < sorted.Len(); i++ {
		name, _ := sorted.Cell(i, "name").AsString()
		got = append(got, name)
	}
	want := []string{"c", "a", "d", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestTopNTieBreaksByOriginalOrder(t *testing.T) {
	tbl := New([]string{"name", "revenue"})
	tbl.Append(Row{"name": String("first"), "revenue": Number(100)})
	tbl.Append(Row{"name": String("second"), "revenue": Number(100)})
	tbl.Append(Row{"name": String("third"), "revenue": Number(50)})

	top, err := tbl.TopN("revenue", 2)
	if err != nil {
		t.Fatalf("TopN: %v", err)
	}
	if top.Len() != 2 {
		t.Fatalf("TopN returned %d rows, want 2", top.Len())
	}
	first, _ := top.Cell(0, "name").AsString()
	second, _ := top.Cell(1, "name").AsString()
	if first != "first" || second != "second" {
		t.Errorf("tie broke as (%s, %s), want original order (first, second)", first, second)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tbl := New([]string{"v"})
	tbl.Append(Row{"v": Number(2)})
	tbl.Append(Row{"v": Number(1)})

	if _, err := tbl.SortByNumber("v", false); err != nil {
		t.Fatalf("SortByNumber: %v", err)
	}
	if v, _ := tbl.Cell(0, "v").AsNumber(); v != 2 {
		t.Error("sort mutated its input")
	}
}

func TestTableJSONDeterministic(t *testing.T) {
	build := func() *Table {
		tbl := New([]string{"name", "v", "d"})
		tbl.Append(Row{"name": String("x"), "v": Number(1.25), "d": Date(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))})
		tbl.Append(Row{"name": String("y"), "v": Null()})
		return tbl
	}

	a, err := json.Marshal(build())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(build())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("identical tables marshaled differently:\n%s\n%s", a, b)
	}

	want := `{"columns":["name","v","d"],"rows":[["x",1.25,"2024-01-02"],["y",null,null]]}`
	if string(a) != want {
		t.Errorf("marshal = %s, want %s", a, want)
	}
}

func TestTableJSONRoundTrip(t *testing.T) {
	tbl := New([]string{"name", "v"})
	tbl.Append(Row{"name": String("x"), "v": Number(3)})
	tbl.Append(Row{"name": Null(), "v": Number(1.5)})

	data, err := json.Marshal(tbl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Table
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 2 {
		t.Fatalf("round trip lost rows: %d", back.Len())
	}
	if !back.Cell(1, "name").IsNull() {
		t.Error("null cell did not survive the round trip")
	}
	if v, _ := back.Cell(1, "v").AsNumber(); v != 1.5 {
		t.Errorf("v = %v, want 1.5", v)
	}
}
