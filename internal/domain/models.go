// internal/domain/models.go
package domain

// FactRow is one raw order line as delivered by a data source. Values stay
// strings here; the normalizer owns all type coercion so that every source
// (Postgres, CSV) feeds the same validated path.
type FactRow struct {
	OrderID       string `db:"order_id" json:"order_id"`
	CustomerID    string `db:"customer_id" json:"customer_id"`
	ProductID     string `db:"product_id" json:"product_id"`
	Category      string `db:"category" json:"category"`
	ProductName   string `db:"product_name" json:"product_name"`
	OrderQty      string `db:"order_qty" json:"order_qty"`
	DeliveryQty   string `db:"delivery_qty" json:"delivery_qty"`
	TotalAmount   string `db:"total_amount" json:"total_amount"`
	OrderDate     string `db:"order_placement_date" json:"order_placement_date"`
	AgreedDate    string `db:"agreed_delivery_date" json:"agreed_delivery_date"`
	ActualDate    string `db:"actual_delivery_date" json:"actual_delivery_date"`
	OnTime        string `db:"on_time" json:"on_time"`
	InFull        string `db:"in_full" json:"in_full"`
	OnTimeInFull  string `db:"on_time_in_full" json:"on_time_in_full"`
	Month         string `db:"month" json:"month"`
	MonthName     string `db:"month_name" json:"month_name"`
	DayName       string `db:"day_name" json:"day_name"`
}

// CustomerRow is one raw customer dimension row.
type CustomerRow struct {
	CustomerID   string `db:"customer_id" json:"customer_id"`
	CustomerName string `db:"customer_name" json:"customer_name"`
	City         string `db:"city" json:"city"`
}

// FactColumns converts scanned fact rows into the column mapping the
// normalizer consumes.
func FactColumns(rows []FactRow) map[string][]string {
	cols := map[string][]string{
		ColOrderID:     make([]string, len(rows)),
		ColCustomerID:  make([]string, len(rows)),
		ColProductID:   make([]string, len(rows)),
		ColCategory:    make([]string, len(rows)),
		ColProductName: make([]string, len(rows)),
		ColOrderQty:    make([]string, len(rows)),
		ColDeliveryQty: make([]string, len(rows)),
		ColTotalAmount: make([]string, len(rows)),
		ColOrderDate:   make([]string, len(rows)),
		ColAgreedDate:  make([]string, len(rows)),
		ColActualDate:  make([]string, len(rows)),
		ColOnTime:      make([]string, len(rows)),
		ColInFull:      make([]string, len(rows)),
		ColOTIF:        make([]string, len(rows)),
		ColMonth:       make([]string, len(rows)),
		ColMonthName:   make([]string, len(rows)),
		ColDayName:     make([]string, len(rows)),
	}
	for i, r := range rows {
		cols[ColOrderID][i] = r.OrderID
		cols[ColCustomerID][i] = r.CustomerID
		cols[ColProductID][i] = r.ProductID
		cols[ColCategory][i] = r.Category
		cols[ColProductName][i] = r.ProductName
		cols[ColOrderQty][i] = r.OrderQty
		cols[ColDeliveryQty][i] = r.DeliveryQty
		cols[ColTotalAmount][i] = r.TotalAmount
		cols[ColOrderDate][i] = r.OrderDate
		cols[ColAgreedDate][i] = r.AgreedDate
		cols[ColActualDate][i] = r.ActualDate
		cols[ColOnTime][i] = r.OnTime
		cols[ColInFull][i] = r.InFull
		cols[ColOTIF][i] = r.OnTimeInFull
		cols[ColMonth][i] = r.Month
		cols[ColMonthName][i] = r.MonthName
		cols[ColDayName][i] = r.DayName
	}
	return cols
}

// CustomerColumns converts scanned customer rows into the column mapping
// the normalizer consumes.
func CustomerColumns(rows []CustomerRow) map[string][]string {
	cols := map[string][]string{
		ColCustomerID:   make([]string, len(rows)),
		ColCustomerName: make([]string, len(rows)),
		ColCity:         make([]string, len(rows)),
	}
	for i, r := range rows {
		cols[ColCustomerID][i] = r.CustomerID
		cols[ColCustomerName][i] = r.CustomerName
		cols[ColCity][i] = r.City
	}
	return cols
}
