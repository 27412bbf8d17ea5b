package repositories

import (
	"context"
	"fmt"

	"unieats/internal/models"

	"github.com/jackc/pgx/v5"
)

type ShopRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Shop, error)
	ListActive(ctx context.Context) ([]*models.Shop, error)
	// Delete removes the shop together with its foods, orders and order items
	// in one transaction. Returns pgx.ErrNoRows if the shop does not exist.
	Delete(ctx context.Context, id int64) error
}

type shopRepo struct {
	db DBTX
}

func NewShopRepo(db DBTX) ShopRepository {
	return &shopRepo{db: db}
}

func (r *shopRepo) GetByID(ctx context.Context, id int64) (*models.Shop, error) {
	shop := &models.Shop{}
	query := `
		SELECT id, shop_name, COALESCE(address, ''), COALESCE(city, ''), is_approved, is_active, total_orders, created_at
		FROM shops
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&shop.ID, &shop.ShopName, &shop.Address, &shop.City, &shop.IsApproved, &shop.IsActive, &shop.TotalOrders, &shop.CreatedAt)
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func (r *shopRepo) ListActive(ctx context.Context) ([]*models.Shop, error) {
	query := `
		SELECT id, shop_name, COALESCE(address, ''), COALESCE(city, ''), is_approved, is_active, total_orders, created_at
		FROM shops
		WHERE is_active = TRUE AND is_approved = TRUE
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := []*models.Shop{}
	for rows.Next() {
		shop := &models.Shop{}
		if err := rows.Scan(&shop.ID, &shop.ShopName, &shop.Address, &shop.City, &shop.IsApproved, &shop.IsActive, &shop.TotalOrders, &shop.CreatedAt); err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

func (r *shopRepo) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT TRUE FROM shops WHERE id = $1 FOR UPDATE`, id).Scan(&exists); err != nil {
			return err
		}

		steps := []struct {
			name  string
			query string
		}{
			{"order items", `DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE shop_id = $1)`},
			{"orders", `DELETE FROM orders WHERE shop_id = $1`},
			{"foods", `DELETE FROM foods WHERE shop_id = $1`},
			{"shop", `DELETE FROM shops WHERE id = $1`},
		}
		for _, step := range steps {
			if _, err := tx.Exec(ctx, step.query, id); err != nil {
				return fmt.Errorf("failed to delete %s of shop %d: %w", step.name, id, err)
			}
		}
		return nil
	})
}
