package repositories

import (
	"context"
	"fmt"

	"unieats/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// StatsRepository maintains the denormalized order counters. The increment
// methods take a Querier so they can join the caller's transaction.
type StatsRepository interface {
	IncrementFoodOrders(ctx context.Context, q Querier, foodIDs []int64) error
	IncrementCustomerStats(ctx context.Context, q Querier, customerID int64, amount decimal.Decimal) error
	IncrementShopOrders(ctx context.Context, q Querier, shopID int64) error
	// Reconcile recomputes every counter from the orders table.
	Reconcile(ctx context.Context) (*models.ReconcileResult, error)
}

type statsRepo struct {
	db DBTX
}

func NewStatsRepo(db DBTX) StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) IncrementFoodOrders(ctx context.Context, q Querier, foodIDs []int64) error {
	if len(foodIDs) == 0 {
		return nil
	}
	query := `UPDATE foods SET total_orders = total_orders + 1 WHERE id = ANY($1)`
	tag, err := q.Exec(ctx, query, foodIDs)
	if err != nil {
		return fmt.Errorf("failed to increment food orders: %w", err)
	}
	if tag.RowsAffected() != int64(len(foodIDs)) {
		return fmt.Errorf("failed to increment food orders: updated %d of %d foods", tag.RowsAffected(), len(foodIDs))
	}
	return nil
}

func (r *statsRepo) IncrementCustomerStats(ctx context.Context, q Querier, customerID int64, amount decimal.Decimal) error {
	query := `UPDATE customers SET total_orders = total_orders + 1, total_spent = total_spent + $1 WHERE id = $2`
	tag, err := q.Exec(ctx, query, amount, customerID)
	if err != nil {
		return fmt.Errorf("failed to update customer stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *statsRepo) IncrementShopOrders(ctx context.Context, q Querier, shopID int64) error {
	query := `UPDATE shops SET total_orders = total_orders + 1 WHERE id = $1`
	tag, err := q.Exec(ctx, query, shopID)
	if err != nil {
		return fmt.Errorf("failed to increment shop orders: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const (
	// Checkouts committing during a reconcile would otherwise have their
	// increments overwritten by the recomputed totals.
	reconcileLockQuery = `LOCK TABLE orders IN SHARE ROW EXCLUSIVE MODE`

	reconcileCustomersQuery = `
		UPDATE customers c
		SET total_orders = s.order_count, total_spent = s.spent
		FROM (
			SELECT cu.id,
				COUNT(o.id) AS order_count,
				COALESCE(SUM(o.total_amount) FILTER (WHERE o.payment_status = 'PAID'), 0) AS spent
			FROM customers cu
			LEFT JOIN orders o ON o.customer_id = cu.id
			GROUP BY cu.id
		) s
		WHERE c.id = s.id AND (c.total_orders <> s.order_count OR c.total_spent <> s.spent)
	`
	reconcileShopsQuery = `
		UPDATE shops sh
		SET total_orders = s.order_count
		FROM (
			SELECT sp.id, COUNT(o.id) AS order_count
			FROM shops sp
			LEFT JOIN orders o ON o.shop_id = sp.id
			GROUP BY sp.id
		) s
		WHERE sh.id = s.id AND sh.total_orders <> s.order_count
	`
	reconcileFoodsQuery = `
		UPDATE foods f
		SET total_orders = s.order_count
		FROM (
			SELECT fd.id, COUNT(DISTINCT oi.order_id) AS order_count
			FROM foods fd
			LEFT JOIN order_items oi ON oi.food_id = fd.id
			GROUP BY fd.id
		) s
		WHERE f.id = s.id AND f.total_orders <> s.order_count
	`
)

func (r *statsRepo) Reconcile(ctx context.Context) (*models.ReconcileResult, error) {
	result := &models.ReconcileResult{}
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, reconcileLockQuery); err != nil {
			return fmt.Errorf("failed to lock orders for reconcile: %w", err)
		}
		steps := []struct {
			query string
			count *int64
		}{
			{reconcileCustomersQuery, &result.Customers},
			{reconcileShopsQuery, &result.Shops},
			{reconcileFoodsQuery, &result.Foods},
		}
		for _, step := range steps {
			tag, err := tx.Exec(ctx, step.query)
			if err != nil {
				return fmt.Errorf("failed to reconcile counters: %w", err)
			}
			*step.count = tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
