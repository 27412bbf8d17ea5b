package services

import (
	"context"
	"fmt"
	"log/slog"

	"unieats/internal/models"
	"unieats/internal/repositories"
)

// StatsService propagates order statistics to foods, customers and shops.
type StatsService interface {
	// CheckoutHook returns the counter updates to run inside the order
	// creation transaction.
	CheckoutHook() repositories.TxHook
	Reconcile(ctx context.Context, actor *models.UserRef) (*models.ReconcileResult, error)
}

type statsService struct {
	repo     repositories.StatsRepository
	activity ActivityLogService
	logger   *slog.Logger
}

func NewStatsService(repo repositories.StatsRepository, activity ActivityLogService, logger *slog.Logger) StatsService {
	return &statsService{repo: repo, activity: activity, logger: logger}
}

// CheckoutHook bumps each distinct food once per order, plus the customer's
// order count and spend and the shop's order count.
func (s *statsService) CheckoutHook() repositories.TxHook {
	return func(ctx context.Context, q repositories.Querier, order *models.Order) error {
		if err := s.repo.IncrementFoodOrders(ctx, q, order.DistinctFoodIDs()); err != nil {
			return err
		}
		if err := s.repo.IncrementCustomerStats(ctx, q, order.CustomerID, order.TotalAmount); err != nil {
			return translateErr(err, "Customer", order.CustomerID)
		}
		if err := s.repo.IncrementShopOrders(ctx, q, order.ShopID); err != nil {
			return translateErr(err, "Shop", order.ShopID)
		}
		return nil
	}
}

func (s *statsService) Reconcile(ctx context.Context, actor *models.UserRef) (*models.ReconcileResult, error) {
	ctx, span := tracer.Start(ctx, "stats.reconcile")
	defer span.End()

	result, err := s.repo.Reconcile(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to reconcile counters: %w", err)
	}

	s.logger.InfoContext(ctx, "counters reconciled",
		"customers", result.Customers, "shops", result.Shops, "foods", result.Foods)
	if result.Customers+result.Shops+result.Foods > 0 {
		s.activity.Log(ctx, models.ActionStatsReconciled,
			fmt.Sprintf("Counters corrected: %d customers, %d shops, %d foods", result.Customers, result.Shops, result.Foods),
			actor, models.EntityStats, nil)
	}
	return result, nil
}
