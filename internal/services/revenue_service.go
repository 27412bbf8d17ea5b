package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"unieats/internal/common"
	"unieats/internal/models"
	"unieats/internal/repositories"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// RevenueService reports a shop's revenue. Only PAID orders count, whatever
// their order status.
type RevenueService interface {
	TotalRevenue(ctx context.Context, shopID int64) (decimal.Decimal, error)
	// RevenueBetween covers orders with start <= createdAt <= end.
	RevenueBetween(ctx context.Context, shopID int64, start, end time.Time) (decimal.Decimal, error)
	Report(ctx context.Context, shopID int64) (*models.RevenueReport, error)
	Dashboard(ctx context.Context, shopID int64) (*models.DashboardStats, error)
	// MonthlyStatement summarises the calendar month starting at monthStart.
	MonthlyStatement(ctx context.Context, shopID int64, monthStart time.Time) (*models.RevenueStatement, error)
}

type revenueService struct {
	orders repositories.OrderRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewRevenueService(orders repositories.OrderRepository, logger *slog.Logger) RevenueService {
	return &revenueService{orders: orders, logger: logger, now: time.Now}
}

// SumPaid adds up the totals of the PAID orders.
func SumPaid(orders []*models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		if order.PaymentStatus == models.PaymentStatusPaid {
			total = total.Add(order.TotalAmount)
		}
	}
	return total
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func (s *revenueService) TotalRevenue(ctx context.Context, shopID int64) (decimal.Decimal, error) {
	orders, err := s.orders.ListByShop(ctx, shopID, models.OrderFilter{})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load orders of shop %d: %w", shopID, err)
	}
	return SumPaid(orders), nil
}

func (s *revenueService) RevenueBetween(ctx context.Context, shopID int64, start, end time.Time) (decimal.Decimal, error) {
	if err := common.ValidateDateRange(start, end); err != nil {
		return decimal.Zero, common.Validation("startDate", "%s", err.Error())
	}
	orders, err := s.orders.ListByShopAndDateRange(ctx, shopID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load orders of shop %d: %w", shopID, err)
	}
	return SumPaid(orders), nil
}

func (s *revenueService) Report(ctx context.Context, shopID int64) (*models.RevenueReport, error) {
	ctx, span := tracer.Start(ctx, "revenue.report", trace.WithAttributes(attribute.Int64("shop_id", shopID)))
	defer span.End()

	now := s.now()
	report := &models.RevenueReport{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.TotalRevenue(gctx, shopID)
		report.TotalRevenue = total
		return err
	})
	g.Go(func() error {
		monthly, err := s.RevenueBetween(gctx, shopID, StartOfMonth(now), now)
		report.MonthlyRevenue = monthly
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return report, nil
}

func (s *revenueService) Dashboard(ctx context.Context, shopID int64) (*models.DashboardStats, error) {
	ctx, span := tracer.Start(ctx, "revenue.dashboard", trace.WithAttributes(attribute.Int64("shop_id", shopID)))
	defer span.End()

	now := s.now()
	stats := &models.DashboardStats{OrdersByStatus: make(map[models.OrderStatus]int)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := s.orders.ListByShop(gctx, shopID, models.OrderFilter{})
		if err != nil {
			return fmt.Errorf("failed to load orders of shop %d: %w", shopID, err)
		}
		stats.TotalRevenue = SumPaid(orders)
		stats.TotalOrders = len(orders)
		for _, order := range orders {
			stats.OrdersByStatus[order.Status]++
		}
		return nil
	})
	g.Go(func() error {
		today, err := s.RevenueBetween(gctx, shopID, StartOfDay(now), now)
		stats.TodayRevenue = today
		return err
	})
	g.Go(func() error {
		monthly, err := s.RevenueBetween(gctx, shopID, StartOfMonth(now), now)
		stats.MonthlyRevenue = monthly
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return stats, nil
}

func (s *revenueService) MonthlyStatement(ctx context.Context, shopID int64, monthStart time.Time) (*models.RevenueStatement, error) {
	start := StartOfMonth(monthStart)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	orders, err := s.orders.ListByShopAndDateRange(ctx, shopID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders of shop %d: %w", shopID, err)
	}

	statement := &models.RevenueStatement{
		ShopID:       shopID,
		Month:        start.Format(StatementMonthLayout),
		PeriodStart:  start,
		PeriodEnd:    end,
		TotalRevenue: SumPaid(orders),
		GeneratedAt:  s.now(),
	}
	for _, order := range orders {
		if order.PaymentStatus == models.PaymentStatusPaid {
			statement.PaidOrders++
		}
	}
	return statement, nil
}
