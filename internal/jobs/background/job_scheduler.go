package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Job names
const (
	JobColorRefresh = "task-color-refresh"
	JobRecurring    = "recurring-task-instantiation"
)

// JobScheduler runs the periodic task maintenance jobs.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	maintenance services.MaintenanceService
	logger      zerolog.Logger
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers the colour refresh and
// recurring instantiation jobs. Nothing runs until Start.
func NewJobScheduler(maintenance services.MaintenanceService, cfg config.SchedulerConfig, logger zerolog.Logger, opts ...gocron.SchedulerOption) (*JobScheduler, error) {
	logger = logger.With().Str("component", "scheduler").Logger()
	opts = append([]gocron.SchedulerOption{gocron.WithLogger(gocronLogger{logger})}, opts...)

	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		maintenance: maintenance,
		logger:      logger,
		jobs:        make(map[string]gocron.Job),
	}

	if err := js.register(JobColorRefresh, every(cfg.ColorRefreshEvery, 15*time.Minute), js.refreshColors); err != nil {
		return nil, err
	}
	if err := js.register(JobRecurring, every(cfg.RecurringEvery, time.Hour), js.instantiateRecurring); err != nil {
		return nil, err
	}

	logger.Info().Int("jobs", len(js.jobs)).Msg("registered background jobs")
	return js, nil
}

func every(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// register adds a singleton job; an overrunning job delays its next run instead of overlapping.
func (js *JobScheduler) register(name string, interval time.Duration, fn func() error) error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(_ uuid.UUID, jobName string, err error) {
				js.logger.Error().Err(err).Str("job", jobName).Msg("background job failed")
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler.
func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// RunNow runs a registered job once without changing its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// JobNames returns the registered job names in order.
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

func (js *JobScheduler) jobContext(name string) context.Context {
	return logging.WithContext(context.Background(), js.logger.With().Str("job", name).Logger())
}

func (js *JobScheduler) refreshColors() error {
	ctx := js.jobContext(JobColorRefresh)
	start := time.Now()

	updated, err := js.maintenance.RefreshColors(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info().
		Int64("updated", updated).
		Dur("took", time.Since(start)).
		Msg("task colours refreshed")
	return nil
}

func (js *JobScheduler) instantiateRecurring() error {
	ctx := js.jobContext(JobRecurring)
	start := time.Now()

	created, err := js.maintenance.InstantiateRecurring(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info().
		Int("created", created).
		Dur("took", time.Since(start)).
		Msg("recurring tasks instantiated")
	return nil
}

// gocronLogger adapts zerolog to gocron.Logger.
type gocronLogger struct {
	l zerolog.Logger
}

func (g gocronLogger) Debug(msg string, args ...any) { g.l.Debug().Fields(args).Msg(msg) }
func (g gocronLogger) Info(msg string, args ...any)  { g.l.Info().Fields(args).Msg(msg) }
func (g gocronLogger) Warn(msg string, args ...any)  { g.l.Warn().Fields(args).Msg(msg) }
func (g gocronLogger) Error(msg string, args ...any) { g.l.Error().Fields(args).Msg(msg) }
