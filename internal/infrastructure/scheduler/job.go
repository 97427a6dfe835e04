package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a refresh job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Dataset is a unit of cached dashboard data that can be refreshed
type Dataset string

const (
	DatasetKPI         Dataset = "kpi"
	DatasetCustomers   Dataset = "customers"
	DatasetProducts    Dataset = "products"
	DatasetBasket      Dataset = "basket"
	DatasetPredictions Dataset = "predictions"
)

// AllDatasets returns every refreshable dataset
func AllDatasets() []Dataset {
	return []Dataset{DatasetKPI, DatasetCustomers, DatasetProducts, DatasetBasket, DatasetPredictions}
}

// ParseDataset validates a dataset name
func ParseDataset(s string) (Dataset, error) {
	d := Dataset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllDatasets() {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
}

// ParseDatasets validates names; an empty list means all datasets
func ParseDatasets(names []string) ([]Dataset, error) {
	if len(names) == 0 {
		return AllDatasets(), nil
	}
	seen := make(map[Dataset]struct{}, len(names))
	out := make([]Dataset, 0, len(names))
	for _, n := range names {
		d, err := ParseDataset(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// Trigger records what enqueued a job
type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerSchedule Trigger = "schedule"
	TriggerStartup  Trigger = "startup"
)

// Job refreshes one dataset. Its state is guarded so that status lookups
// can run while a worker executes it.
type Job struct {
	ID         uuid.UUID
	Dataset    Dataset
	Trigger    Trigger
	MaxRetries int
	CreatedAt  time.Time

	mu          sync.Mutex
	status      JobStatus
	err         string
	startedAt   *time.Time
	completedAt *time.Time
	retryCount  int
	nextRetryAt *time.Time
}

// JobInfo is a point-in-time copy of a job's state
type JobInfo struct {
	ID          uuid.UUID  `json:"id"`
	Dataset     Dataset    `json:"dataset"`
	Trigger     Trigger    `json:"trigger"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RetryCount  int        `json:"retry_count"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
}

// NewJob creates a new job instance
func NewJob(dataset Dataset, trigger Trigger, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Dataset:    dataset,
		Trigger:    trigger,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now(),
		status:     JobStatusPending,
	}
}

// Info returns a snapshot of the job
func (j *Job) Info() JobInfo {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobInfo{
		ID:          j.ID,
		Dataset:     j.Dataset,
		Trigger:     j.Trigger,
		Status:      j.status,
		Error:       j.err,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.startedAt,
		CompletedAt: j.completedAt,
		RetryCount:  j.retryCount,
		NextRetryAt: j.nextRetryAt,
	}
}

// Status returns the current status
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Start marks the job as running
func (j *Job) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.status = JobStatusRunning
	j.startedAt = &now
	j.err = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.status = JobStatusSuccess
	j.completedAt = &now
	j.nextRetryAt = nil
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.status = JobStatusFailed
	j.completedAt = &now
	j.err = err
}

// ShouldRetry returns true if the job failed and has attempts left
func (j *Job) ShouldRetry() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status == JobStatusFailed && j.retryCount < j.MaxRetries
}

// ScheduleRetry returns the job to pending and reports the backoff delay,
// which doubles with every attempt
func (j *Job) ScheduleRetry(base time.Duration) time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	delay := base << j.retryCount
	j.retryCount++
	j.status = JobStatusPending
	next := time.Now().Add(delay)
	j.nextRetryAt = &next
	return delay
}
