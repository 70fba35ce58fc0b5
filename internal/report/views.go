// internal/report/views.go
package report

// ViewSchema is the fixed, versioned column contract of one named view.
// Downstream chart/format adapters rely on it instead of inspecting data;
// any column change bumps the version.
type ViewSchema struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Columns []string `json:"columns"`
}

// View names.
const (
	ViewCategorySummary         = "category_summary"
	ViewCustomerSummary         = "customer_summary"
	ViewProductSummary          = "product_summary"
	ViewWeekdaySummary          = "weekday_summary"
	ViewMonthlyTrend            = "monthly_trend"
	ViewExecutiveKPI            = "executive_kpi"
	ViewCustomerRetention       = "customer_retention"
	ViewLateDelivery            = "late_delivery"
	ViewCustomerOTIFDiscrepancy = "customer_otif_discrepancy"
	ViewCityOTIF                = "city_otif"
)

var schemas = map[string]ViewSchema{
	ViewCategorySummary: {
		Name: ViewCategorySummary, Version: 1,
		Columns: []string{
			"category", "products", "orders", "revenue", "qty_ordered",
			"qty_delivered", "on_time", "in_full", "otif",
			"revenue_share_pct", "otif_pct", "shortfall",
		},
	},
	ViewCustomerSummary: {
		Name: ViewCustomerSummary, Version: 1,
		Columns: []string{
			"customer_name", "city", "orders", "revenue", "avg_order_value",
		},
	},
	ViewProductSummary: {
		Name: ViewProductSummary, Version: 1,
		Columns: []string{
			"product_name", "category", "orders", "revenue", "qty_ordered",
			"qty_delivered", "on_time_pct", "in_full_pct", "otif_pct",
			"fill_rate_pct", "shortfall",
		},
	},
	ViewWeekdaySummary: {
		Name: ViewWeekdaySummary, Version: 1,
		Columns: []string{
			"day_name", "orders", "revenue", "on_time_pct", "in_full_pct",
			"otif_pct", "fill_rate_pct",
		},
	},
	ViewMonthlyTrend: {
		Name: ViewMonthlyTrend, Version: 1,
		Columns: []string{
			"month", "month_name", "orders", "revenue", "otif_pct",
			"on_time_pct", "in_full_pct", "qty_ordered", "qty_delivered",
			"revenue_loss",
		},
	},
	ViewExecutiveKPI: {
		Name: ViewExecutiveKPI, Version: 1,
		Columns: []string{
			"total_orders", "order_lines", "active_customers",
			"active_products", "order_days", "total_revenue", "revenue_loss",
			"loss_rate_pct", "otif_pct", "on_time_pct", "in_full_pct",
			"fill_rate_pct", "avg_order_value", "orders_per_day",
			"revenue_per_day",
		},
	},
	ViewCustomerRetention: {
		Name: ViewCustomerRetention, Version: 1,
		Columns: []string{
			"periods", "total_customers", "retained_customers",
			"retention_rate_pct", "top20_contribution_pct",
		},
	},
	ViewLateDelivery: {
		Name: ViewLateDelivery, Version: 1,
		Columns: []string{
			"late_lines", "avg_delay_days", "max_delay_days",
			"undelivered_lines",
		},
	},
	ViewCustomerOTIFDiscrepancy: {
		Name: ViewCustomerOTIFDiscrepancy, Version: 1,
		Columns: []string{
			"customer_id", "customer_name", "city", "orders", "on_time",
			"in_full", "otif", "otif_pct", "failed_otif", "failure_rate_pct",
		},
	},
	ViewCityOTIF: {
		Name: ViewCityOTIF, Version: 1,
		Columns: []string{"city", "orders", "otif", "otif_pct"},
	},
}

// needsCustomers lists the views that join the customer dimension.
var needsCustomers = map[string]bool{
	ViewCustomerSummary:         true,
	ViewCustomerOTIFDiscrepancy: true,
	ViewCityOTIF:                true,
}

// ViewNames returns all view names in a stable, documented order.
func ViewNames() []string {
	return []string{
		ViewExecutiveKPI,
		ViewCategorySummary,
		ViewProductSummary,
		ViewCustomerSummary,
		ViewCustomerOTIFDiscrepancy,
		ViewCityOTIF,
		ViewWeekdaySummary,
		ViewMonthlyTrend,
		ViewCustomerRetention,
		ViewLateDelivery,
	}
}

// Schema returns the column contract of a view.
func Schema(view string) (ViewSchema, bool) {
	s, ok := schemas[view]
	return s, ok
}
