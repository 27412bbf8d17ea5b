package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unieats/internal/models"

	"github.com/jackc/pgx/v5"
)

// ErrStaleOrder is returned when an order row changed between the locked read
// and the write.
var ErrStaleOrder = errors.New("order was modified concurrently")

// TxHook runs inside the order creation transaction after the order and its
// items are written. A hook error rolls the whole order back.
type TxHook func(ctx context.Context, q Querier, order *models.Order) error

type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order, hooks ...TxHook) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	// Mutate locks the order row, applies fn and persists status, payment
	// status and delivery times with a version bump.
	Mutate(ctx context.Context, id int64, fn func(order *models.Order) error) (*models.Order, error)
	ListByShop(ctx context.Context, shopID int64, filter models.OrderFilter) ([]*models.Order, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*models.Order, error)
	ListByShopAndDateRange(ctx context.Context, shopID int64, start, end time.Time) ([]*models.Order, error)
}

const orderColumns = `id, order_number, customer_id, shop_id, total_amount, status, payment_status,
	delivery_address, delivery_instructions, estimated_delivery_time, actual_delivery_time,
	version, created_at, updated_at`

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

// FormatOrderNumber renders the human-facing order number for a sequence value.
func FormatOrderNumber(createdAt time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%06d", createdAt.Format("20060102"), seq)
}

func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order, hooks ...TxHook) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var seq int64
		if err := tx.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
			return fmt.Errorf("failed to allocate order number: %w", err)
		}
		order.OrderNumber = FormatOrderNumber(order.CreatedAt, seq)

		query := `
			INSERT INTO orders (order_number, customer_id, shop_id, total_amount, status, payment_status,
				delivery_address, delivery_instructions, estimated_delivery_time, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			RETURNING id, version
		`
		err := tx.QueryRow(ctx, query,
			order.OrderNumber, order.CustomerID, order.ShopID, order.TotalAmount, order.Status, order.PaymentStatus,
			order.DeliveryAddress, order.DeliveryInstructions, order.EstimatedDeliveryTime, order.CreatedAt,
		).Scan(&order.ID, &order.Version)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		order.UpdatedAt = order.CreatedAt

		itemQuery := `
			INSERT INTO order_items (order_id, food_id, food_name, quantity, unit_price, total_price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		for _, item := range order.Items {
			item.OrderID = order.ID
			item.CreatedAt = order.CreatedAt
			err := tx.QueryRow(ctx, itemQuery,
				item.OrderID, item.FoodID, item.FoodName, item.Quantity, item.UnitPrice, item.TotalPrice, item.CreatedAt,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("failed to insert order item for food %d: %w", item.FoodID, err)
			}
		}

		for _, hook := range hooks {
			if err := hook(ctx, tx, order); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	order.Items, err = listItems(ctx, r.db, order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Mutate(ctx context.Context, id int64, fn func(order *models.Order) error) (*models.Order, error) {
	var order *models.Order
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}

		query := `
			UPDATE orders
			SET status = $1, payment_status = $2, estimated_delivery_time = $3, actual_delivery_time = $4,
				version = version + 1, updated_at = NOW()
			WHERE id = $5 AND version = $6
			RETURNING version, updated_at
		`
		err = tx.QueryRow(ctx, query,
			order.Status, order.PaymentStatus, order.EstimatedDeliveryTime, order.ActualDeliveryTime, order.ID, order.Version,
		).Scan(&order.Version, &order.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStaleOrder
		}
		if err != nil {
			return fmt.Errorf("failed to update order %d: %w", order.ID, err)
		}

		order.Items, err = listItems(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByShop(ctx context.Context, shopID int64, filter models.OrderFilter) ([]*models.Order, error) {
	conditions := []string{"shop_id = $1"}
	args := []any{shopID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return queryOrders(ctx, r.db, query, args...)
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return queryOrders(ctx, r.db, query, customerID, limit, offset)
}

// ListByShopAndDateRange returns the shop's orders with start <= created_at <= end.
func (r *orderRepo) ListByShopAndDateRange(ctx context.Context, shopID int64, start, end time.Time) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE shop_id = $1 AND created_at BETWEEN $2 AND $3 ORDER BY created_at DESC`
	return queryOrders(ctx, r.db, query, shopID, start, end)
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CustomerID, &order.ShopID, &order.TotalAmount, &order.Status,
		&order.PaymentStatus, &order.DeliveryAddress, &order.DeliveryInstructions, &order.EstimatedDeliveryTime,
		&order.ActualDeliveryTime, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func queryOrders(ctx context.Context, q Querier, query string, args ...any) ([]*models.Order, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func listItems(ctx context.Context, q Querier, orderID int64) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, food_id, food_name, quantity, unit_price, total_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.OrderItem{}
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.FoodID, &item.FoodName, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
