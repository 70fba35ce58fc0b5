package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/domain"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const selectFacts = `
SELECT
	COALESCE(order_id, ''),
	COALESCE(customer_id::text, ''),
	COALESCE(product_id::text, ''),
	COALESCE(category, ''),
	COALESCE(product_name, ''),
	COALESCE(order_qty::text, ''),
	COALESCE(delivery_qty::text, ''),
	COALESCE(total_amount::text, ''),
	COALESCE(order_placement_date::text, ''),
	COALESCE(agreed_delivery_date::text, ''),
	COALESCE(actual_delivery_date::text, ''),
	COALESCE(on_time::text, ''),
	COALESCE(in_full::text, ''),
	COALESCE(on_time_in_full::text, ''),
	COALESCE(order_month::text, ''),
	COALESCE(month_name, ''),
	COALESCE(day_name, '')
FROM order_facts
ORDER BY id`

const selectCustomers = `
SELECT
	COALESCE(customer_id::text, ''),
	COALESCE(customer_name, ''),
	COALESCE(city, '')
FROM customers
ORDER BY customer_id`

// loadFromDB reads both input tables with the pgx driver. The one-shot CLI
// path keeps plain database/sql; the server uses the pooled repository.
func loadFromDB(ctx context.Context, dbURL string) (report.Input, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return report.Input{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return report.Input{}, fmt.Errorf("failed to ping database: %w", err)
	}

	facts, err := scanFacts(ctx, db)
	if err != nil {
		return report.Input{}, err
	}
	customers, err := scanCustomers(ctx, db)
	if err != nil {
		return report.Input{}, err
	}

	return report.Input{
		Facts:     domain.FactColumns(facts),
		Customers: domain.CustomerColumns(customers),
	}, nil
}

func scanFacts(ctx context.Context, db *sql.DB) ([]domain.FactRow, error) {
	rows, err := db.QueryContext(ctx, selectFacts)
	if err != nil {
		return nil, fmt.Errorf("query order facts: %w", err)
	}
	defer rows.Close()

	var out []domain.FactRow
	for rows.Next() {
		var r domain.FactRow
		if err := rows.Scan(
			&r.OrderID, &r.CustomerID, &r.ProductID, &r.Category, &r.ProductName,
			&r.OrderQty, &r.DeliveryQty, &r.TotalAmount,
			&r.OrderDate, &r.AgreedDate, &r.ActualDate,
			&r.OnTime, &r.InFull, &r.OnTimeInFull,
			&r.Month, &r.MonthName, &r.DayName,
		); err != nil {
			return nil, fmt.Errorf("scan order fact: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanCustomers(ctx context.Context, db *sql.DB) ([]domain.CustomerRow, error) {
	rows, err := db.QueryContext(ctx, selectCustomers)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []domain.CustomerRow
	for rows.Next() {
		var r domain.CustomerRow
		if err := rows.Scan(&r.CustomerID, &r.CustomerName, &r.City); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
