package repositories

import (
	"context"

	"unieats/internal/models"
)

type FoodRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Food, error)
	ListByShop(ctx context.Context, shopID int64) ([]*models.Food, error)
}

type foodRepo struct {
	db Querier
}

func NewFoodRepo(db Querier) FoodRepository {
	return &foodRepo{db: db}
}

func (r *foodRepo) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	food := &models.Food{}
	query := `
		SELECT id, shop_id, name, price, is_available, total_orders, created_at
		FROM foods
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&food.ID, &food.ShopID, &food.Name, &food.Price, &food.IsAvailable, &food.TotalOrders, &food.CreatedAt)
	if err != nil {
		return nil, err
	}
	return food, nil
}

func (r *foodRepo) ListByShop(ctx context.Context, shopID int64) ([]*models.Food, error) {
	query := `
		SELECT id, shop_id, name, price, is_available, total_orders, created_at
		FROM foods
		WHERE shop_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := []*models.Food{}
	for rows.Next() {
		food := &models.Food{}
		if err := rows.Scan(&food.ID, &food.ShopID, &food.Name, &food.Price, &food.IsAvailable, &food.TotalOrders, &food.CreatedAt); err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}
	return foods, rows.Err()
}
