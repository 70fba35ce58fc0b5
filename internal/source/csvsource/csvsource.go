// Package csvsource loads the order fact table and customer dimension
// from local CSV files, for environments without a database.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
)

// Source reads two CSV files on every Load. Re-reading keeps the server
// simple; callers that want cheaper repeat access put a cache in front.
type Source struct {
	factsPath     string
	customersPath string
	dateLayout    string
}

// New creates a CSV source. customersPath may be empty when only
// fact-driven views are needed; dateLayout empty selects the source
// default used by the normalizer.
func New(factsPath, customersPath, dateLayout string) *Source {
	return &Source{factsPath: factsPath, customersPath: customersPath, dateLayout: dateLayout}
}

func (s *Source) Load(ctx context.Context) (report.Input, error) {
	facts, err := readColumns(ctx, s.factsPath)
	if err != nil {
		return report.Input{}, fmt.Errorf("read facts csv: %w", err)
	}

	in := report.Input{Facts: facts}
	if s.customersPath != "" {
		customers, err := readColumns(ctx, s.customersPath)
		if err != nil {
			return report.Input{}, fmt.Errorf("read customers csv: %w", err)
		}
		in.Customers = customers
	}
	return in, nil
}

// DateLayout returns the Go reference layout of the date columns this
// source produces.
func (s *Source) DateLayout() string { return s.dateLayout }

// readColumns pivots a header-first CSV into column name → values. Short
// records pad with empty strings, which normalize to nulls downstream.
func readColumns(ctx context.Context, path string) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are the normalizer's problem to count
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file, expected a header row", path)
	}

	header := records[0]
	cols := make(map[string][]string, len(header))
	for _, name := range header {
		cols[name] = make([]string, 0, len(records)-1)
	}
	for _, rec := range records[1:] {
		for i, name := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			cols[name] = append(cols[name], v)
		}
	}
	return cols, nil
}
