package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"unieats/internal/models"
	"unieats/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) CheckoutHook() repositories.TxHook {
	return nil
}

func (m *MockStatsService) Reconcile(ctx context.Context, actor *models.UserRef) (*models.ReconcileResult, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) ArchiveMonth(ctx context.Context, month time.Time) (int, error) {
	args := m.Called(ctx, month)
	return args.Int(0), args.Error(1)
}

func (m *MockStatementService) PresignedURL(ctx context.Context, shopID int64, month string) (string, error) {
	args := m.Called(ctx, shopID, month)
	return args.String(0), args.Error(1)
}

func newScheduler(t *testing.T, opts Options) (*JobScheduler, *MockStatsService, *MockStatementService) {
	t.Helper()
	stats := &MockStatsService{}
	statements := &MockStatementService{}
	js, err := NewJobScheduler(stats, statements, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = js.Stop() })
	return js, stats, statements
}

func TestNewJobScheduler_RegistersEnabledJobs(t *testing.T) {
	js, _, _ := newScheduler(t, Options{ReconcileInterval: time.Hour, StatementsEnabled: true})
	assert.Equal(t, []string{statementsJobName, reconcileJobName}, js.JobNames())

	js, _, _ = newScheduler(t, Options{StatementsEnabled: false})
	assert.Empty(t, js.JobNames())
}

func TestReconcileCounters_RunsAsSystem(t *testing.T) {
	js, stats, _ := newScheduler(t, Options{})
	stats.On("Reconcile", mock.Anything, (*models.UserRef)(nil)).
		Return(&models.ReconcileResult{Customers: 1}, nil).Once()

	require.NoError(t, js.reconcileCounters(context.Background()))
	stats.AssertExpectations(t)
}

func TestReconcileCounters_PropagatesFailure(t *testing.T) {
	js, stats, _ := newScheduler(t, Options{})
	stats.On("Reconcile", mock.Anything, (*models.UserRef)(nil)).Return(nil, errors.New("db down")).Once()

	assert.Error(t, js.reconcileCounters(context.Background()))
}

func TestArchiveStatements_UsesPreviousMonth(t *testing.T) {
	js, _, statements := newScheduler(t, Options{})
	js.now = func() time.Time { return time.Date(2026, time.January, 1, 0, 10, 0, 0, time.UTC) }
	want := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	statements.On("ArchiveMonth", mock.Anything, want).Return(3, nil).Once()

	require.NoError(t, js.archiveStatements(context.Background()))
	statements.AssertExpectations(t)
}

func TestArchiveStatements_PartialFailure(t *testing.T) {
	js, _, statements := newScheduler(t, Options{})
	js.now = func() time.Time { return time.Date(2026, time.March, 1, 0, 10, 0, 0, time.UTC) }
	statements.On("ArchiveMonth", mock.Anything, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)).
		Return(2, errors.New("failed to upload shops/3/2026-02.json: timeout")).Once()

	assert.Error(t, js.archiveStatements(context.Background()))
}
