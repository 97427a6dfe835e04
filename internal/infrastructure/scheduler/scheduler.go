// Package scheduler runs dashboard refresh jobs on a worker pool, both on a
// fixed interval and on demand.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const jobHistoryLimit = 200

// JobExecutor performs the work of a refresh job
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// JobExecutorFunc adapts a function to JobExecutor
type JobExecutorFunc func(ctx context.Context, job *Job) error

// Execute calls f
func (f JobExecutorFunc) Execute(ctx context.Context, job *Job) error { return f(ctx, job) }

// Config holds scheduler configuration
type Config struct {
	Workers         int
	QueueSize       int
	JobTimeout      time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	RefreshInterval time.Duration // 0 disables the periodic refresh
	WarmOnStart     bool
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		QueueSize:       100,
		JobTimeout:      5 * time.Minute,
		RetryAttempts:   3,
		RetryDelay:      30 * time.Second,
		RefreshInterval: 7 * 24 * time.Hour,
	}
}

// Scheduler manages refresh jobs
type Scheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	history map[uuid.UUID]*Job
	order   []uuid.UUID
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, executor JobExecutor, logger *zap.Logger) *Scheduler {
	defaults := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger.Named("scheduler"),
		jobs:     make(chan *Job, config.QueueSize),
		history:  make(map[uuid.UUID]*Job),
	}
}

// Start launches the workers and the refresh ticker
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	if s.config.RefreshInterval > 0 {
		s.wg.Add(1)
		go s.tick(ctx)
	}

	s.logger.Info("Refresh scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
		zap.Duration("refresh_interval", s.config.RefreshInterval),
	)

	if s.config.WarmOnStart {
		if _, err := s.Submit(TriggerStartup, AllDatasets()...); err != nil {
			s.logger.Warn("Failed to enqueue startup refresh", zap.Error(err))
		}
	}
	return nil
}

// Stop cancels the workers and waits for them to return. Queued jobs that
// have not started are dropped.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Refresh scheduler stopped gracefully", zap.Int("dropped_jobs", len(s.jobs)))
		return nil
	case <-ctx.Done():
		s.logger.Warn("Refresh scheduler stop timed out")
		return ctx.Err()
	}
}

// Running reports whether Start has been called without a matching Stop
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Submit enqueues one job per dataset
func (s *Scheduler) Submit(trigger Trigger, datasets ...Dataset) ([]JobInfo, error) {
	infos := make([]JobInfo, 0, len(datasets))
	for _, d := range datasets {
		job := NewJob(d, trigger, s.config.RetryAttempts)
		if err := s.enqueue(job); err != nil {
			return infos, err
		}
		s.remember(job)
		infos = append(infos, job.Info())
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("dataset", string(d)),
			zap.String("trigger", string(trigger)),
		)
	}
	return infos, nil
}

// Job returns the state of a recently submitted job
func (s *Scheduler) Job(id uuid.UUID) (JobInfo, error) {
	s.mu.Lock()
	job, ok := s.history[id]
	s.mu.Unlock()
	if !ok {
		return JobInfo{}, ErrJobNotFound
	}
	return job.Info(), nil
}

// Recent returns the most recent jobs, newest first
func (s *Scheduler) Recent(limit int) []JobInfo {
	s.mu.Lock()
	ids := make([]uuid.UUID, len(s.order))
	copy(ids, s.order)
	s.mu.Unlock()

	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}
	out := make([]JobInfo, 0, limit)
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		if info, err := s.Job(ids[i]); err == nil {
			out = append(out, info)
		}
	}
	return out
}

func (s *Scheduler) enqueue(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	select {
	case s.jobs <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) remember(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[job.ID] = job
	s.order = append(s.order, job.ID)
	for len(s.order) > jobHistoryLimit {
		delete(s.history, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logger.Info("Scheduled refresh triggered")
			if _, err := s.Submit(TriggerSchedule, AllDatasets()...); err != nil {
				s.logger.Warn("Failed to enqueue scheduled refresh", zap.Error(err))
			}
		}
	}
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("dataset", string(job.Dataset)),
	)
	log.Info("Processing job")

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.executor.Execute(jobCtx, job); err != nil {
		job.Fail(err.Error())
		log.Error("Job failed", zap.Error(err))

		if job.ShouldRetry() && ctx.Err() == nil {
			delay := job.ScheduleRetry(s.config.RetryDelay)
			log.Info("Job scheduled for retry",
				zap.Int("retry_count", job.Info().RetryCount),
				zap.Int("max_retries", job.MaxRetries),
				zap.Duration("delay", delay),
			)
			time.AfterFunc(delay, func() {
				if err := s.enqueue(job); err != nil {
					job.Fail(err.Error())
					log.Warn("Failed to re-queue job for retry", zap.Error(err))
				}
			})
		}
		return
	}

	job.Complete()
	log.Info("Job completed successfully")
}
