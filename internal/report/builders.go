// internal/report/builders.go
package report

import (
	"github.com/andresuchdata/deliveryperf/backend-go/internal/aggregate"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/domain"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/metrics"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

// summaryMetrics are shared by the dimensional summaries.
var summaryMetrics = []aggregate.Metric{
	{Name: "orders", Column: domain.ColOrderID, Op: aggregate.OpCount},
	{Name: "revenue", Column: domain.ColTotalAmount, Op: aggregate.OpSum},
	{Name: "qty_ordered", Column: domain.ColOrderQty, Op: aggregate.OpSum},
	{Name: "qty_delivered", Column: domain.ColDeliveryQty, Op: aggregate.OpSum},
	{Name: "on_time", Column: domain.ColOnTime, Op: aggregate.OpSum},
	{Name: "in_full", Column: domain.ColInFull, Op: aggregate.OpSum},
	{Name: "otif", Column: domain.ColOTIF, Op: aggregate.OpSum},
}

func buildCategorySummary(rows *table.Table) (*table.Table, error) {
	ms := append([]aggregate.Metric{
		{Name: "products", Column: domain.ColProductID, Op: aggregate.OpUniqueCount},
	}, summaryMetrics...)
	g, err := aggregate.Aggregate(rows, []string{domain.ColCategory}, ms)
	if err != nil {
		return nil, err
	}

	var totalRevenue float64
	for i := 0; i < g.Len(); i++ {
		totalRevenue += num(g, i, "revenue")
	}

	out := table.New(schemas[ViewCategorySummary].Columns)
	for i := 0; i < g.Len(); i++ {
		out.Append(table.Row{
			"category":          g.Cell(i, domain.ColCategory),
			"products":          g.Cell(i, "products"),
			"orders":            g.Cell(i, "orders"),
			"revenue":           g.Cell(i, "revenue"),
			"qty_ordered":       g.Cell(i, "qty_ordered"),
			"qty_delivered":     g.Cell(i, "qty_delivered"),
			"on_time":           g.Cell(i, "on_time"),
			"in_full":           g.Cell(i, "in_full"),
			"otif":              g.Cell(i, "otif"),
			"revenue_share_pct": metrics.Share(num(g, i, "revenue"), totalRevenue),
			"otif_pct":          metrics.Rate(num(g, i, "otif"), num(g, i, "orders")),
			"shortfall":         table.Number(num(g, i, "qty_ordered") - num(g, i, "qty_delivered")),
		})
	}
	return out, nil
}

func buildProductSummary(rows *table.Table) (*table.Table, error) {
	g, err := aggregate.Aggregate(rows,
		[]string{domain.ColProductName, domain.ColCategory}, summaryMetrics)
	if err != nil {
		return nil, err
	}

	out := table.New(schemas[ViewProductSummary].Columns)
	for i := 0; i < g.Len(); i++ {
		orders := num(g, i, "orders")
		out.Append(table.Row{
			"product_name":  g.Cell(i, domain.ColProductName),
			"category":      g.Cell(i, domain.ColCategory),
			"orders":        g.Cell(i, "orders"),
			"revenue":       g.Cell(i, "revenue"),
			"qty_ordered":   g.Cell(i, "qty_ordered"),
			"qty_delivered": g.Cell(i, "qty_delivered"),
			"on_time_pct":   metrics.Rate(num(g, i, "on_time"), orders),
			"in_full_pct":   metrics.Rate(num(g, i, "in_full"), orders),
			"otif_pct":      metrics.Rate(num(g, i, "otif"), orders),
			"fill_rate_pct": metrics.FillRate(num(g, i, "qty_delivered"), num(g, i, "qty_ordered")),
			"shortfall":     table.Number(num(g, i, "qty_ordered") - num(g, i, "qty_delivered")),
		})
	}
	// Ranking is an explicit, stable step; ties keep group encounter order.
	return out.SortByNumber("revenue", true)
}

func buildCustomerSummary(rows *table.Table) (*table.Table, error) {
	g, err := aggregate.Aggregate(rows,
		[]string{domain.ColCustomerName, domain.ColCity},
		[]aggregate.Metric{
			{Name: "orders", Column: domain.ColOrderID, Op: aggregate.OpCount},
			{Name: "revenue", Column: domain.ColTotalAmount, Op: aggregate.OpSum},
		})
	if err != nil {
		return nil, err
	}

	out := table.New(schemas[ViewCustomerSummary].Columns)
	for i := 0; i < g.Len(); i++ {
		orders := num(g, i, "orders")
		avg := table.Null()
		if orders > 0 {
			avg = table.Number(num(g, i, "revenue") / orders)
		}
		out.Append(table.Row{
			"customer_name":   g.Cell(i, domain.ColCustomerName),
			"city":            g.Cell(i, domain.ColCity),
			"orders":          g.Cell(i, "orders"),
			"revenue":         g.Cell(i, "revenue"),
			"avg_order_value": avg,
		})
	}
	return out.TopN("revenue", 10)
}

// weekdayOrder is calendar order; days absent from the data are omitted
// rather than emitted as zero groups.
var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func buildWeekdaySummary(rows *table.Table) (*table.Table, error) {
	g, err := aggregate.Aggregate(rows, []string{domain.ColDayName}, summaryMetrics)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, g.Len())
	for i := 0; i < g.Len(); i++ {
		if day, ok := g.Cell(i, domain.ColDayName).AsString(); ok {
			byDay[day] = i
		}
	}

	indices := make([]int, 0, g.Len())
	seen := make(map[int]bool, g.Len())
	for _, day := range weekdayOrder {
		if i, ok := byDay[day]; ok {
			indices = append(indices, i)
			seen[i] = true
		}
	}
	// Unrecognized day labels trail in encounter order.
	for i := 0; i < g.Len(); i++ {
		if !seen[i] {
			indices = append(indices, i)
		}
	}

	out := table.New(schemas[ViewWeekdaySummary].Columns)
	for _, i := range indices {
		orders := num(g, i, "orders")
		out.Append(table.Row{
			"day_name":      g.Cell(i, domain.ColDayName),
			"orders":        g.Cell(i, "orders"),
			"revenue":       g.Cell(i, "revenue"),
			"on_time_pct":   metrics.Rate(num(g, i, "on_time"), orders),
			"in_full_pct":   metrics.Rate(num(g, i, "in_full"), orders),
			"otif_pct":      metrics.Rate(num(g, i, "otif"), orders),
			"fill_rate_pct": metrics.FillRate(num(g, i, "qty_delivered"), num(g, i, "qty_ordered")),
		})
	}
	return out, nil
}

func buildMonthlyTrend(rows *table.Table) (*table.Table, error) {
	ms := append(append([]aggregate.Metric{}, summaryMetrics...),
		aggregate.Metric{Name: "revenue_loss", Column: domain.ColRevenueLoss, Op: aggregate.OpSum})
	g, err := aggregate.Aggregate(rows,
		[]string{domain.ColMonth, domain.ColMonthName}, ms)
	if err != nil {
		return nil, err
	}
	g, err = g.SortByNumber(domain.ColMonth, false)
	if err != nil {
		return nil, err
	}

	out := table.New(schemas[ViewMonthlyTrend].Columns)
	for i := 0; i < g.Len(); i++ {
		orders := num(g, i, "orders")
		out.Append(table.Row{
			"month":         g.Cell(i, domain.ColMonth),
			"month_name":    g.Cell(i, domain.ColMonthName),
			"orders":        g.Cell(i, "orders"),
			"revenue":       g.Cell(i, "revenue"),
			"otif_pct":      metrics.Rate(num(g, i, "otif"), orders),
			"on_time_pct":   metrics.Rate(num(g, i, "on_time"), orders),
			"in_full_pct":   metrics.Rate(num(g, i, "in_full"), orders),
			"qty_ordered":   g.Cell(i, "qty_ordered"),
			"qty_delivered": g.Cell(i, "qty_delivered"),
			"revenue_loss":  g.Cell(i, "revenue_loss"),
		})
	}
	return out, nil
}

func buildExecutiveKPI(rows *table.Table) (*table.Table, error) {
	lines := rows.Len()
	orderIDs := make(map[string]struct{})
	customerIDs := make(map[string]struct{})
	productIDs := make(map[string]struct{})
	orderDays := make(map[string]struct{})
	var revenue, loss, otifSum, onTimeSum, inFullSum, ordered, delivered float64

	for i := 0; i < lines; i++ {
		if c := rows.Cell(i, domain.ColOrderID); !c.IsNull() {
			orderIDs[c.Key()] = struct{}{}
		}
		if c := rows.Cell(i, domain.ColCustomerID); !c.IsNull() {
			customerIDs[c.Key()] = struct{}{}
		}
		if c := rows.Cell(i, domain.ColProductID); !c.IsNull() {
			productIDs[c.Key()] = struct{}{}
		}
		if c := rows.Cell(i, domain.ColOrderDate); !c.IsNull() {
			orderDays[c.Key()] = struct{}{}
		}
		revenue += num(rows, i, domain.ColTotalAmount)
		loss += num(rows, i, domain.ColRevenueLoss)
		otifSum += num(rows, i, domain.ColOTIF)
		onTimeSum += num(rows, i, domain.ColOnTime)
		inFullSum += num(rows, i, domain.ColInFull)
		ordered += num(rows, i, domain.ColOrderQty)
		delivered += num(rows, i, domain.ColDeliveryQty)
	}

	totalOrders := float64(len(orderIDs))
	days := float64(len(orderDays))

	avgOrderValue := table.Null()
	if totalOrders > 0 {
		avgOrderValue = table.Number(revenue / totalOrders)
	}
	ordersPerDay := table.Null()
	revenuePerDay := table.Null()
	if days > 0 {
		ordersPerDay = table.Number(float64(lines) / days)
		revenuePerDay = table.Number(revenue / days)
	}

	out := table.New(schemas[ViewExecutiveKPI].Columns)
	out.Append(table.Row{
		"total_orders":     table.Number(totalOrders),
		"order_lines":      table.Number(float64(lines)),
		"active_customers": table.Number(float64(len(customerIDs))),
		"active_products":  table.Number(float64(len(productIDs))),
		"order_days":       table.Number(days),
		"total_revenue":    table.Number(revenue),
		"revenue_loss":     table.Number(loss),
		"loss_rate_pct":    metrics.Share(loss, revenue),
		"otif_pct":         metrics.Rate(otifSum, float64(lines)),
		"on_time_pct":      metrics.Rate(onTimeSum, float64(lines)),
		"in_full_pct":      metrics.Rate(inFullSum, float64(lines)),
		"fill_rate_pct":    metrics.FillRate(delivered, ordered),
		"avg_order_value":  avgOrderValue,
		"orders_per_day":   ordersPerDay,
		"revenue_per_day":  revenuePerDay,
	})
	return out, nil
}

func buildCustomerRetention(rows *table.Table) (*table.Table, error) {
	byMonth := make(map[string][]string)
	var monthOrder []string
	for i := 0; i < rows.Len(); i++ {
		month := rows.Cell(i, domain.ColMonth)
		customer := rows.Cell(i, domain.ColCustomerID)
		if month.IsNull() || customer.IsNull() {
			continue
		}
		key := month.Key()
		if _, ok := byMonth[key]; !ok {
			monthOrder = append(monthOrder, key)
		}
		byMonth[key] = append(byMonth[key], customer.Key())
	}

	periods := make([][]string, len(monthOrder))
	for i, m := range monthOrder {
		periods[i] = byMonth[m]
	}
	rate, retained, universe := metrics.RetentionRate(periods)

	// Pareto: per-customer revenue, top 20% share.
	g, err := aggregate.Aggregate(rows, []string{domain.ColCustomerID},
		[]aggregate.Metric{{Name: "revenue", Column: domain.ColTotalAmount, Op: aggregate.OpSum}})
	if err != nil {
		return nil, err
	}
	values := make([]float64, g.Len())
	for i := 0; i < g.Len(); i++ {
		values[i] = num(g, i, "revenue")
	}

	out := table.New(schemas[ViewCustomerRetention].Columns)
	out.Append(table.Row{
		"periods":                table.Number(float64(len(periods))),
		"total_customers":        table.Number(float64(universe)),
		"retained_customers":     table.Number(float64(retained)),
		"retention_rate_pct":     rate,
		"top20_contribution_pct": table.Number(metrics.TopKContribution(values, 0.20)),
	})
	return out, nil
}

func buildLateDelivery(rows *table.Table) (*table.Table, error) {
	late := rows.Filter(func(i int) bool {
		v, ok := rows.Cell(i, domain.ColOnTime).AsNumber()
		return ok && v == 0
	})

	var sum, max float64
	n := 0
	undelivered := 0
	for i := 0; i < late.Len(); i++ {
		if late.Cell(i, domain.ColActualDate).IsNull() {
			undelivered++
		}
		d, ok := late.Cell(i, domain.ColDelayDays).AsNumber()
		if !ok {
			continue
		}
		sum += d
		if n == 0 || d > max {
			max = d
		}
		n++
	}

	avgCell := table.Null()
	maxCell := table.Null()
	if n > 0 {
		avgCell = table.Number(sum / float64(n))
		maxCell = table.Number(max)
	}

	out := table.New(schemas[ViewLateDelivery].Columns)
	out.Append(table.Row{
		"late_lines":        table.Number(float64(late.Len())),
		"avg_delay_days":    avgCell,
		"max_delay_days":    maxCell,
		"undelivered_lines": table.Number(float64(undelivered)),
	})
	return out, nil
}

// buildCityOTIF breaks OTIF down by the customer dimension's city.
// Lines whose customer has no dimension row carry a null city and form no
// group; they show up in the unmatched-customers diagnostic instead.
func buildCityOTIF(rows *table.Table) (*table.Table, error) {
	g, err := aggregate.Aggregate(rows, []string{domain.ColCity},
		[]aggregate.Metric{
			{Name: "orders", Column: domain.ColOrderID, Op: aggregate.OpCount},
			{Name: "otif", Column: domain.ColOTIF, Op: aggregate.OpSum},
		})
	if err != nil {
		return nil, err
	}

	out := table.New(schemas[ViewCityOTIF].Columns)
	for i := 0; i < g.Len(); i++ {
		out.Append(table.Row{
			"city":     g.Cell(i, domain.ColCity),
			"orders":   g.Cell(i, "orders"),
			"otif":     g.Cell(i, "otif"),
			"otif_pct": metrics.Rate(num(g, i, "otif"), num(g, i, "orders")),
		})
	}
	return out, nil
}

func buildCustomerOTIFDiscrepancy(rows *table.Table) (*table.Table, error) {
	g, err := aggregate.Aggregate(rows,
		[]string{domain.ColCustomerID, domain.ColCustomerName, domain.ColCity},
		[]aggregate.Metric{
			{Name: "orders", Column: domain.ColOrderID, Op: aggregate.OpCount},
			{Name: "on_time", Column: domain.ColOnTime, Op: aggregate.OpSum},
			{Name: "in_full", Column: domain.ColInFull, Op: aggregate.OpSum},
			{Name: "otif", Column: domain.ColOTIF, Op: aggregate.OpSum},
		})
	if err != nil {
		return nil, err
	}

	out := table.New(schemas[ViewCustomerOTIFDiscrepancy].Columns)
	for i := 0; i < g.Len(); i++ {
		orders := num(g, i, "orders")
		failed := orders - num(g, i, "otif")
		out.Append(table.Row{
			"customer_id":      g.Cell(i, domain.ColCustomerID),
			"customer_name":    g.Cell(i, domain.ColCustomerName),
			"city":             g.Cell(i, domain.ColCity),
			"orders":           g.Cell(i, "orders"),
			"on_time":          g.Cell(i, "on_time"),
			"in_full":          g.Cell(i, "in_full"),
			"otif":             g.Cell(i, "otif"),
			"otif_pct":         metrics.Rate(num(g, i, "otif"), orders),
			"failed_otif":      table.Number(failed),
			"failure_rate_pct": metrics.Rate(failed, orders),
		})
	}
	return out.TopN("failure_rate_pct", 10)
}
