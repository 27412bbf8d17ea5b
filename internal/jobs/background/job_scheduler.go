package background

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"unieats/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const (
	reconcileJobName  = "stats-reconcile"
	statementsJobName = "revenue-statements"
)

// JobScheduler runs the periodic maintenance jobs: counter reconciliation and
// the monthly revenue statement archive.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	stats      services.StatsService
	statements services.StatementService
	logger     *slog.Logger
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	jobs map[string]gocron.Job
	mu   sync.RWMutex
}

// Options selects which jobs get registered.
type Options struct {
	ReconcileInterval time.Duration
	StatementsEnabled bool
}

// NewJobScheduler creates the scheduler and registers its jobs. A zero
// ReconcileInterval disables reconciliation.
func NewJobScheduler(stats services.StatsService, statements services.StatementService, opts Options, logger *slog.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler:  scheduler,
		stats:      stats,
		statements: statements,
		logger:     logger,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
		jobs:       make(map[string]gocron.Job),
	}

	if err := js.registerJobs(opts); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", "jobs", js.JobNames())
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return.
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs(opts Options) error {
	if opts.ReconcileInterval > 0 {
		job, err := js.scheduler.NewJob(
			gocron.DurationJob(opts.ReconcileInterval),
			gocron.NewTask(js.reconcileCounters, js.ctx),
			gocron.WithName(reconcileJobName),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to create reconcile job: %w", err)
		}
		js.jobs[reconcileJobName] = job
	}

	if opts.StatementsEnabled {
		// 00:10 on the 1st, after the month has fully closed.
		job, err := js.scheduler.NewJob(
			gocron.MonthlyJob(1, gocron.NewDaysOfTheMonth(1), gocron.NewAtTimes(gocron.NewAtTime(0, 10, 0))),
			gocron.NewTask(js.archiveStatements, js.ctx),
			gocron.WithName(statementsJobName),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to create statements job: %w", err)
		}
		js.jobs[statementsJobName] = job
	}
	return nil
}

func (js *JobScheduler) reconcileCounters(ctx context.Context) error {
	result, err := js.stats.Reconcile(ctx, nil)
	if err != nil {
		js.logger.ErrorContext(ctx, "scheduled reconciliation failed", "error", err)
		return err
	}
	js.logger.DebugContext(ctx, "scheduled reconciliation finished",
		"customers", result.Customers, "shops", result.Shops, "foods", result.Foods)
	return nil
}

// archiveStatements writes the statements of the month before the current one.
func (js *JobScheduler) archiveStatements(ctx context.Context) error {
	previous := services.StartOfMonth(js.now()).AddDate(0, -1, 0)
	written, err := js.statements.ArchiveMonth(ctx, previous)
	if err != nil {
		js.logger.ErrorContext(ctx, "statement archive incomplete",
			"month", previous.Format(services.StatementMonthLayout), "written", written, "error", err)
		return err
	}
	return nil
}

// JobNames returns the registered job names in sorted order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
