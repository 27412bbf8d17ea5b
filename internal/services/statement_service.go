package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"unieats/internal/common"
	"unieats/internal/repositories"
)

// StatementMonthLayout is the YYYY-MM form used in statement object names.
const StatementMonthLayout = "2006-01"

// StatementService archives monthly revenue statements to object storage.
type StatementService interface {
	// ArchiveMonth writes one statement per active shop for the month
	// containing month and returns how many were written.
	ArchiveMonth(ctx context.Context, month time.Time) (int, error)
	// PresignedURL returns a download link for the shop's statement of month
	// (YYYY-MM).
	PresignedURL(ctx context.Context, shopID int64, month string) (string, error)
}

type statementService struct {
	shops   repositories.ShopRepository
	revenue RevenueService
	storage MinioService
	bucket  string
	expiry  time.Duration
	logger  *slog.Logger
}

func NewStatementService(shops repositories.ShopRepository, revenue RevenueService, storage MinioService, bucket string, expiry time.Duration, logger *slog.Logger) StatementService {
	return &statementService{
		shops:   shops,
		revenue: revenue,
		storage: storage,
		bucket:  bucket,
		expiry:  expiry,
		logger:  logger,
	}
}

// StatementObjectName is the object key of a shop's statement.
func StatementObjectName(shopID int64, month string) string {
	return fmt.Sprintf("shops/%d/%s.json", shopID, month)
}

func (s *statementService) ArchiveMonth(ctx context.Context, month time.Time) (int, error) {
	ctx, span := tracer.Start(ctx, "statements.archive_month")
	defer span.End()

	shops, err := s.shops.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active shops: %w", err)
	}

	written := 0
	var errs []error
	for _, shop := range shops {
		statement, err := s.revenue.MonthlyStatement(ctx, shop.ID, month)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		body, err := json.Marshal(statement)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		name := StatementObjectName(shop.ID, statement.Month)
		if err := s.storage.PutObject(ctx, s.bucket, name, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
			errs = append(errs, fmt.Errorf("failed to upload %s: %w", name, err))
			continue
		}
		written++
	}

	s.logger.InfoContext(ctx, "revenue statements archived",
		"month", StartOfMonth(month).Format(StatementMonthLayout), "written", written, "failed", len(errs))
	if len(errs) > 0 {
		span.RecordError(errors.Join(errs...))
	}
	return written, errors.Join(errs...)
}

func (s *statementService) PresignedURL(ctx context.Context, shopID int64, month string) (string, error) {
	if _, err := time.Parse(StatementMonthLayout, month); err != nil {
		return "", common.Validation("month", "month must be in YYYY-MM format")
	}

	name := StatementObjectName(shopID, month)
	exists, err := s.storage.ObjectExists(ctx, s.bucket, name)
	if err != nil {
		return "", fmt.Errorf("failed to check statement %s: %w", name, err)
	}
	if !exists {
		return "", &common.AppError{
			Kind:    common.ErrNotFound,
			Message: fmt.Sprintf("statement not found for month: %s", month),
		}
	}
	return s.storage.GetPresignedURL(ctx, s.bucket, name, s.expiry)
}
