package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"godownhub/internal/common"
	"godownhub/internal/config"
	"godownhub/internal/services"
)

const (
	JobExpirySweep     = "expiry-sweep"
	JobOverdueInvoices = "overdue-invoices"
	JobDashboardWarmup = "dashboard-warmup"

	defaultWarmupInterval = 5 * time.Minute
)

// Services are the sweeps the scheduler drives.
type Services struct {
	Agreements  services.AgreementService
	Allocations services.AllocationService
	Invoices    services.InvoiceService
	Dashboard   services.DashboardService
}

// JobScheduler runs the periodic maintenance jobs. Every job runs in
// singleton mode so a slow run is never overlapped by the next one.
type JobScheduler struct {
	scheduler gocron.Scheduler
	svc       Services
	logger    *zap.Logger
	today     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]gocron.Job
}

// NewJobScheduler creates the scheduler and registers the expiry sweep
// (daily at 01:00 UTC), the overdue invoice sweep (hourly) and the dashboard
// warmup (every cfg.WarmupInterval).
func NewJobScheduler(cfg config.JobsConfig, svc Services, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(zapLogger{logger.Sugar()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		svc:       svc,
		logger:    logger,
		today:     common.Today,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}

	warmup := cfg.WarmupInterval
	if warmup <= 0 {
		warmup = defaultWarmupInterval
	}
	if err := js.registerJobs(warmup); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs(warmup time.Duration) error {
	defs := []struct {
		name string
		def  gocron.JobDefinition
		task func(context.Context) error
	}{
		{JobExpirySweep, gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(1, 0, 0))), js.sweepExpired},
		{JobOverdueInvoices, gocron.DurationJob(time.Hour), js.markOverdue},
		{JobDashboardWarmup, gocron.DurationJob(warmup), js.warmDashboards},
	}

	js.mu.Lock()
	defer js.mu.Unlock()
	for _, d := range defs {
		job, err := js.scheduler.NewJob(
			d.def,
			gocron.NewTask(d.task, js.ctx),
			gocron.WithName(d.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithError(func(_ uuid.UUID, name string, err error) {
					js.logger.Error("background job failed", zap.String("job", name), zap.Error(err))
				}),
			),
		)
		if err != nil {
			return fmt.Errorf("failed to register %s job: %w", d.name, err)
		}
		js.jobs[d.name] = job
	}

	js.logger.Info("registered background jobs", zap.Int("count", len(js.jobs)))
	return nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return.
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

// Jobs returns the registered job names.
func (js *JobScheduler) Jobs() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// sweepExpired expires agreements and licenses and releases allocations
// whose validity ended before today.
func (js *JobScheduler) sweepExpired(ctx context.Context) error {
	today := js.today()
	agreements, licenses, err := js.svc.Agreements.ExpireLapsed(ctx, today)
	if err != nil {
		return fmt.Errorf("expire agreements: %w", err)
	}
	released, err := js.svc.Allocations.ReleaseLapsed(ctx, today)
	if err != nil {
		return fmt.Errorf("release allocations: %w", err)
	}

	js.logger.Info("expiry sweep completed",
		zap.String("date", today.Format(time.DateOnly)),
		zap.Int64("agreements_expired", agreements),
		zap.Int64("licenses_expired", licenses),
		zap.Int64("allocations_released", released),
	)
	return nil
}

func (js *JobScheduler) markOverdue(ctx context.Context) error {
	companies, err := js.svc.Invoices.MarkOverdue(ctx, js.today())
	if err != nil {
		return fmt.Errorf("mark overdue invoices: %w", err)
	}
	if companies > 0 {
		js.logger.Info("overdue invoices marked", zap.Int("companies", companies))
	}
	return nil
}

func (js *JobScheduler) warmDashboards(ctx context.Context) error {
	start := time.Now()
	warmed, err := js.svc.Dashboard.Warmup(ctx)
	if err != nil {
		return fmt.Errorf("warm dashboards: %w", err)
	}
	js.logger.Debug("dashboards warmed", zap.Int("companies", warmed), zap.Duration("took", time.Since(start)))
	return nil
}

// zapLogger adapts zap to gocron's key/value logger.
type zapLogger struct {
	l *zap.SugaredLogger
}

func (z zapLogger) Debug(msg string, args ...any) { z.l.Debugw(msg, args...) }
func (z zapLogger) Info(msg string, args ...any)  { z.l.Infow(msg, args...) }
func (z zapLogger) Warn(msg string, args ...any)  { z.l.Warnw(msg, args...) }
func (z zapLogger) Error(msg string, args ...any) { z.l.Errorw(msg, args...) }
