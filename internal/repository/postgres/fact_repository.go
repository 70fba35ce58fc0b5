package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/domain"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/report"
	"golang.org/x/sync/errgroup"
)

// Every value comes back as text; the normalizer owns coercion, so NULLs
// surface as empty strings and follow the same null path as CSV blanks.
const selectFacts = `
SELECT
	COALESCE(order_id, '')                     AS order_id,
	COALESCE(customer_id::text, '')            AS customer_id,
	COALESCE(product_id::text, '')             AS product_id,
	COALESCE(category, '')                     AS category,
	COALESCE(product_name, '')                 AS product_name,
	COALESCE(order_qty::text, '')              AS order_qty,
	COALESCE(delivery_qty::text, '')           AS delivery_qty,
	COALESCE(total_amount::text, '')           AS total_amount,
	COALESCE(order_placement_date::text, '')   AS order_placement_date,
	COALESCE(agreed_delivery_date::text, '')   AS agreed_delivery_date,
	COALESCE(actual_delivery_date::text, '')   AS actual_delivery_date,
	COALESCE(on_time::text, '')                AS on_time,
	COALESCE(in_full::text, '')                AS in_full,
	COALESCE(on_time_in_full::text, '')        AS on_time_in_full,
	COALESCE(order_month::text, '')            AS month,
	COALESCE(month_name, '')                   AS month_name,
	COALESCE(day_name, '')                     AS day_name
FROM order_facts
ORDER BY id`

const selectCustomers = `
SELECT
	COALESCE(customer_id::text, '') AS customer_id,
	COALESCE(customer_name, '')     AS customer_name,
	COALESCE(city, '')              AS city
FROM customers
ORDER BY customer_id`

// FactRepository loads the order fact table and the customer dimension.
type FactRepository struct {
	db         *DB
	dateLayout string
}

func NewFactRepository(db *DB) *FactRepository {
	return &FactRepository{db: db, dateLayout: "2006-01-02"}
}

// Load fetches facts and customers concurrently and returns them in the
// raw column form the report assembler consumes. Postgres date columns
// come back ISO formatted, so the repository also reports the layout.
func (r *FactRepository) Load(ctx context.Context) (report.Input, error) {
	var (
		facts     []domain.FactRow
		customers []domain.CustomerRow
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.withQuerySlot(ctx, func() error {
			if err := r.db.SelectContext(ctx, &facts, selectFacts); err != nil {
				return fmt.Errorf("load order facts: %w", err)
			}
			return nil
		})
	})
	g.Go(func() error {
		return r.db.withQuerySlot(ctx, func() error {
			if err := r.db.SelectContext(ctx, &customers, selectCustomers); err != nil {
				return fmt.Errorf("load customers: %w", err)
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return report.Input{}, err
	}

	return report.Input{
		Facts:     domain.FactColumns(facts),
		Customers: domain.CustomerColumns(customers),
	}, nil
}

// DateLayout returns the Go reference layout of the date columns this
// source produces.
func (r *FactRepository) DateLayout() string { return r.dateLayout }
