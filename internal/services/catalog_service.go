package services

import (
	"context"
	"fmt"
	"log/slog"

	"unieats/internal/models"
	"unieats/internal/repositories"
)

// CatalogService resolves shops, foods and customers by id.
type CatalogService interface {
	GetShop(ctx context.Context, id int64) (*models.Shop, error)
	GetFood(ctx context.Context, id int64) (*models.Food, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	DeleteShop(ctx context.Context, id int64, actor *models.UserRef) error
}

type catalogService struct {
	shops     repositories.ShopRepository
	foods     repositories.FoodRepository
	customers repositories.CustomerRepository
	activity  ActivityLogService
	logger    *slog.Logger
}

func NewCatalogService(shops repositories.ShopRepository, foods repositories.FoodRepository, customers repositories.CustomerRepository, activity ActivityLogService, logger *slog.Logger) CatalogService {
	return &catalogService{
		shops:     shops,
		foods:     foods,
		customers: customers,
		activity:  activity,
		logger:    logger,
	}
}

func (s *catalogService) GetShop(ctx context.Context, id int64) (*models.Shop, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, translateErr(err, "Shop", id)
	}
	return shop, nil
}

func (s *catalogService) GetFood(ctx context.Context, id int64) (*models.Food, error) {
	food, err := s.foods.GetByID(ctx, id)
	if err != nil {
		return nil, translateErr(err, "Food", id)
	}
	return food, nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, translateErr(err, "Customer", id)
	}
	return customer, nil
}

// DeleteShop removes the shop with its foods, orders and order items.
func (s *catalogService) DeleteShop(ctx context.Context, id int64, actor *models.UserRef) error {
	if err := s.shops.Delete(ctx, id); err != nil {
		return translateErr(err, "Shop", id)
	}
	s.logger.InfoContext(ctx, "shop deleted", "shop_id", id)
	s.activity.Log(ctx, models.ActionShopDeleted, fmt.Sprintf("Shop deleted: %d", id), actor, models.EntityShop, &id)
	return nil
}
