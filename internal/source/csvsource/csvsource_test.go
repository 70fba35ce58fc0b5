package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPivotsColumns(t *testing.T) {
	dir := t.TempDir()
	facts := writeFile(t, dir, "facts.csv",
		"order_id,order_qty\no1,10\no2,\n")
	customers := writeFile(t, dir, "customers.csv",
		"customer_id,customer_name\nc1,Acme\n")

	src := New(facts, customers, "")
	in, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := in.Facts["order_id"]; len(got) != 2 || got[0] != "o1" {
		t.Errorf("order_id column = %v", got)
	}
	if got := in.Facts["order_qty"]; got[1] != "" {
		t.Errorf("blank cell = %q, want empty string", got[1])
	}
	if got := in.Customers["customer_name"]; len(got) != 1 || got[0] != "Acme" {
		t.Errorf("customer_name column = %v", got)
	}
}

func TestLoadShortRecordsPadEmpty(t *testing.T) {
	dir := t.TempDir()
	facts := writeFile(t, dir, "facts.csv", "a,b,c\n1,2\n")

	src := New(facts, "", "")
	in, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := in.Facts["c"]; len(got) != 1 || got[0] != "" {
		t.Errorf("short record should pad column c with an empty value, got %v", got)
	}
	if in.Customers != nil {
		t.Error("customers should be nil when no path is configured")
	}
}

func TestLoadMissingFile(t *testing.T) {
	src := New(filepath.Join(t.TempDir(), "nope.csv"), "", "")
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("missing file should fail")
	}
}
