package repositories

import (
	"context"

	"unieats/internal/models"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
}

type customerRepo struct {
	db Querier
}

func NewCustomerRepo(db Querier) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `
		SELECT c.id, u.full_name, COALESCE(c.address, ''), COALESCE(c.city, ''), COALESCE(c.postal_code, ''), c.total_orders, c.total_spent
		FROM customers c
		JOIN users u ON u.id = c.id
		WHERE c.id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&customer.ID, &customer.FullName, &customer.Address, &customer.City, &customer.PostalCode, &customer.TotalOrders, &customer.TotalSpent)
	if err != nil {
		return nil, err
	}
	return customer, nil
}
