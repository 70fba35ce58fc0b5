// internal/domain/columns.go
package domain

import (
	"github.com/andresuchdata/deliveryperf/backend-go/internal/normalize"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

// Fact table column names, exactly as the upstream source labels them.
// The flag columns are case- and spacing-sensitive on purpose; the source
// sheet uses title case with spaces for them.
const (
	ColOrderID     = "order_id"
	ColCustomerID  = "customer_id"
	ColProductID   = "product_id"
	ColCategory    = "category"
	ColProductName = "product_name"
	ColOrderQty    = "order_qty"
	ColDeliveryQty = "delivery_qty"
	ColTotalAmount = "total_amount"
	ColOrderDate   = "order_placement_date"
	ColAgreedDate  = "agreed_delivery_date"
	ColActualDate  = "actual_delivery_date"
	ColOnTime      = "On Time"
	ColInFull      = "In Full"
	ColOTIF        = "On Time In Full"
	ColMonth       = "Month"
	ColMonthName   = "Month Name"
	ColDayName     = "Day Name"
)

// Customer dimension column names.
const (
	ColCustomerName = "customer_name"
	ColCity         = "city"
)

// Derived row-level metric columns.
const (
	ColShortfall   = "shortfall"
	ColUnitPrice   = "unit_price"
	ColDelayDays   = "delay_days"
	ColRevenueLoss = "revenue_loss"
)

// DefaultDateLayout matches the source data's month/day/year dates.
const DefaultDateLayout = "1/2/2006"

// FactColumnSpecs is the validated ingestion schema for the fact table.
// dateLayout applies to all three date columns; empty means the default.
func FactColumnSpecs(dateLayout string) []normalize.ColumnSpec {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	return []normalize.ColumnSpec{
		{Name: ColOrderID, Kind: table.KindString},
		{Name: ColCustomerID, Kind: table.KindString},
		{Name: ColProductID, Kind: table.KindString},
		{Name: ColCategory, Kind: table.KindString},
		{Name: ColProductName, Kind: table.KindString},
		{Name: ColOrderQty, Kind: table.KindNumber},
		{Name: ColDeliveryQty, Kind: table.KindNumber},
		{Name: ColTotalAmount, Kind: table.KindNumber},
		{Name: ColOrderDate, Kind: table.KindDate, Layout: dateLayout},
		{Name: ColAgreedDate, Kind: table.KindDate, Layout: dateLayout},
		{Name: ColActualDate, Kind: table.KindDate, Layout: dateLayout},
		{Name: ColOnTime, Kind: table.KindNumber},
		{Name: ColInFull, Kind: table.KindNumber},
		{Name: ColOTIF, Kind: table.KindNumber},
		{Name: ColMonth, Kind: table.KindNumber},
		{Name: ColMonthName, Kind: table.KindString},
		{Name: ColDayName, Kind: table.KindString},
	}
}

// CustomerColumnSpecs is the validated ingestion schema for the customer
// dimension.
func CustomerColumnSpecs() []normalize.ColumnSpec {
	return []normalize.ColumnSpec{
		{Name: ColCustomerID, Kind: table.KindString},
		{Name: ColCustomerName, Kind: table.KindString},
		{Name: ColCity, Kind: table.KindString},
	}
}
