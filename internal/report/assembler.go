// internal/report/assembler.go
package report

import (
	"fmt"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/domain"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/metrics"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/normalize"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

// Input carries the two raw tables a report computation consumes, as
// column name → raw values. Customers may be nil for views that do not
// join the dimension.
type Input struct {
	Facts     map[string][]string
	Customers map[string][]string
}

// Diagnostics accumulates the non-fatal conditions of one computation.
// A SchemaError aborts instead; everything here ships with the result.
type Diagnostics struct {
	CoercionFailures   map[string]int `json:"coercion_failures,omitempty"`
	OTIFMismatches     int            `json:"otif_mismatches"`
	UnmatchedCustomers int            `json:"unmatched_customers"`
}

// Result is one fully computed view. Values stay typed; formatting them
// into display strings is a presentation concern outside this package.
type Result struct {
	Schema      ViewSchema   `json:"schema"`
	Table       *table.Table `json:"table"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}

// Assembler builds named report views out of the normalize → join →
// derive → aggregate → ratio stages. It holds only configuration; every
// Build call is an independent pure computation, safe to run concurrently
// with others on the same inputs.
type Assembler struct {
	dateLayout string
}

// NewAssembler creates an assembler. dateLayout applies to the fact date
// columns; empty selects the source default.
func NewAssembler(dateLayout string) *Assembler {
	return &Assembler{dateLayout: dateLayout}
}

// Build computes one named view. A report is either fully computed or not
// produced at all.
func (a *Assembler) Build(view string, in Input) (*Result, error) {
	schema, ok := schemas[view]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", view)
	}

	prep, err := a.prepare(in, needsCustomers[view])
	if err != nil {
		return nil, err
	}

	var tbl *table.Table
	switch view {
	case ViewCategorySummary:
		tbl, err = buildCategorySummary(prep.rows)
	case ViewCustomerSummary:
		tbl, err = buildCustomerSummary(prep.rows)
	case ViewProductSummary:
		tbl, err = buildProductSummary(prep.rows)
	case ViewWeekdaySummary:
		tbl, err = buildWeekdaySummary(prep.rows)
	case ViewMonthlyTrend:
		tbl, err = buildMonthlyTrend(prep.rows)
	case ViewExecutiveKPI:
		tbl, err = buildExecutiveKPI(prep.rows)
	case ViewCustomerRetention:
		tbl, err = buildCustomerRetention(prep.rows)
	case ViewLateDelivery:
		tbl, err = buildLateDelivery(prep.rows)
	case ViewCustomerOTIFDiscrepancy:
		tbl, err = buildCustomerOTIFDiscrepancy(prep.rows)
	case ViewCityOTIF:
		tbl, err = buildCityOTIF(prep.rows)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", view, err)
	}

	return &Result{Schema: schema, Table: tbl, Diagnostics: prep.diag}, nil
}

type preparedInput struct {
	rows *table.Table // derived fact rows, joined when the view needs it
	diag Diagnostics
}

// prepare runs the shared pipeline prefix: normalize, optional join,
// derive.
func (a *Assembler) prepare(in Input, join bool) (*preparedInput, error) {
	facts, factRep, err := normalize.Normalize(in.Facts, domain.FactColumnSpecs(a.dateLayout))
	if err != nil {
		return nil, err
	}

	diag := Diagnostics{CoercionFailures: make(map[string]int)}
	for col, n := range factRep.Failures {
		diag.CoercionFailures[col] += n
	}

	rows := facts
	if join {
		if in.Customers == nil {
			return nil, &table.SchemaError{Column: domain.ColCustomerID, Reason: "customer dimension required for this view"}
		}
		dim, dimRep, err := normalize.Normalize(in.Customers, domain.CustomerColumnSpecs())
		if err != nil {
			return nil, err
		}
		for col, n := range dimRep.Failures {
			diag.CoercionFailures[col] += n
		}
		joined, unmatched, err := table.LeftJoin(facts, dim, domain.ColCustomerID,
			[]string{domain.ColCustomerName, domain.ColCity})
		if err != nil {
			return nil, err
		}
		rows = joined
		diag.UnmatchedCustomers = unmatched
	}

	derived, mismatches, err := metrics.Derive(rows)
	if err != nil {
		return nil, err
	}
	diag.OTIFMismatches = mismatches

	if len(diag.CoercionFailures) == 0 {
		diag.CoercionFailures = nil
	}
	return &preparedInput{rows: derived, diag: diag}, nil
}

// num reads an aggregated numeric cell, 0 when null. Aggregation sums and
// counts are always valid numbers; this keeps the view builders terse.
func num(t *table.Table, i int, col string) float64 {
	v, _ := t.Cell(i, col).AsNumber()
	return v
}
