// internal/metrics/derive.go
package metrics

import (
	"math"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/domain"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

// Derive computes the row-level delivery and revenue metrics over a
// normalized fact table and returns a new table with four extra columns:
// shortfall, unit_price, delay_days, revenue_loss.
//
// shortfall is signed: over-delivery yields a negative value, surfaced
// rather than clamped. unit_price is total_amount / order_qty and null at
// zero ordered quantity. delay_days is actual minus agreed in whole days,
// null when either date is null; negative means early. revenue_loss prices
// only the positive part of the shortfall at the ordered unit price, 0 when
// no unit price can be inferred.
//
// The second return counts rows where on_time AND in_full disagrees with
// the supplied On Time In Full flag. The flags are independent upstream
// inputs; the mismatch count is surfaced instead of trusting either side.
func Derive(facts *table.Table) (*table.Table, int, error) {
	required := []string{
		domain.ColOrderQty, domain.ColDeliveryQty, domain.ColTotalAmount,
		domain.ColOnTime, domain.ColInFull, domain.ColOTIF,
		domain.ColAgreedDate, domain.ColActualDate,
	}
	for _, c := range required {
		if !facts.HasColumn(c) {
			return nil, 0, &table.SchemaError{Column: c, Reason: "required column missing for metric derivation"}
		}
	}

	out := table.New(append(facts.Columns(),
		domain.ColShortfall, domain.ColUnitPrice, domain.ColDelayDays, domain.ColRevenueLoss))

	mismatches := 0
	for i := 0; i < facts.Len(); i++ {
		row := facts.Row(i)

		orderQty, okOrder := facts.Cell(i, domain.ColOrderQty).AsNumber()
		deliveryQty, okDelivery := facts.Cell(i, domain.ColDeliveryQty).AsNumber()
		amount, okAmount := facts.Cell(i, domain.ColTotalAmount).AsNumber()

		shortfall := table.Null()
		if okOrder && okDelivery {
			shortfall = table.Number(orderQty - deliveryQty)
		}
		row[domain.ColShortfall] = shortfall

		unitPrice := table.Null()
		if okOrder && okAmount && orderQty > 0 {
			unitPrice = table.Number(amount / orderQty)
		}
		row[domain.ColUnitPrice] = unitPrice

		row[domain.ColDelayDays] = delayDays(
			facts.Cell(i, domain.ColAgreedDate),
			facts.Cell(i, domain.ColActualDate))

		loss := 0.0
		if up, ok := unitPrice.AsNumber(); ok {
			if sf, ok := shortfall.AsNumber(); ok {
				loss = math.Max(sf, 0) * up
			}
		}
		row[domain.ColRevenueLoss] = table.Number(loss)

		if flagMismatch(
			facts.Cell(i, domain.ColOnTime),
			facts.Cell(i, domain.ColInFull),
			facts.Cell(i, domain.ColOTIF)) {
			mismatches++
		}

		out.Append(row)
	}
	return out, mismatches, nil
}

func delayDays(agreed, actual table.Cell) table.Cell {
	a, okA := agreed.AsDate()
	b, okB := actual.AsDate()
	if !okA || !okB {
		return table.Null()
	}
	return table.Number(math.Round(b.Sub(a).Hours() / 24))
}

// flagMismatch recomputes OTIF from the component flags and compares it to
// the supplied value. Rows with a null flag cannot be validated and are not
// counted as mismatches.
func flagMismatch(onTime, inFull, otif table.Cell) bool {
	ot, okOT := onTime.AsNumber()
	ifl, okIF := inFull.AsNumber()
	supplied, okOTIF := otif.AsNumber()
	if !okOT || !okIF || !okOTIF {
		return false
	}
	expected := ot != 0 && ifl != 0
	return expected != (supplied != 0)
}
