// internal/table/cell.go
package table

import (
	"encoding/json"
	"strconv"
	"time"
)

// Kind identifies the typed content of a cell.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// Cell is a single nullable typed value. The zero value is a null cell.
// Null is the universal sentinel for missing data and undefined ratios;
// it is never conflated with zero.
type Cell struct {
	kind  Kind
	valid bool
	str   string
	num   float64
	date  time.Time
}

// Null returns a null cell.
func Null() Cell { return Cell{} }

// String returns a valid string cell.
func String(s string) Cell { return Cell{kind: KindString, valid: true, str: s} }

// Number returns a valid numeric cell.
func Number(f float64) Cell { return Cell{kind: KindNumber, valid: true, num: f} }

// Date returns a valid date cell, truncated to the day.
func Date(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{kind: KindDate, valid: true, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return !c.valid }

// Kind returns the cell's kind. Null cells report KindString.
func (c Cell) Kind() Kind { return c.kind }

// AsString returns the string value, ok=false for null or non-string cells.
func (c Cell) AsString() (string, bool) {
	if !c.valid || c.kind != KindString {
		return "", false
	}
	return c.str, true
}

// AsNumber returns the numeric value, ok=false for null or non-numeric cells.
func (c Cell) AsNumber() (float64, bool) {
	if !c.valid || c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// AsDate returns the date value, ok=false for null or non-date cells.
func (c Cell) AsDate() (time.Time, bool) {
	if !c.valid || c.kind != KindDate {
		return time.Time{}, false
	}
	return c.date, true
}

// Key returns a canonical string form used for grouping and unique counts.
// Distinct values always map to distinct keys within one column.
func (c Cell) Key() string {
	if !c.valid {
		return "\x00null"
	}
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return c.str
	}
}

// MarshalJSON encodes null cells as JSON null, numbers as plain floats,
// dates as "2006-01-02" strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	switch c.kind {
	case KindNumber:
		return json.Marshal(c.num)
	case KindDate:
		return json.Marshal(c.date.Format("2006-01-02"))
	default:
		return json.Marshal(c.str)
	}
}
