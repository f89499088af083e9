package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Syncer performs one batchmate flag propagation.
type Syncer interface {
	SyncBatchmateFlag(ctx context.Context, batchmateID uint, flag string) (int, error)
}

// Alerter is notified when a sync task exhausts its retries.
type Alerter interface {
	Error(message string) error
}

type SyncTask struct {
	ID          string
	BatchmateID uint
	Flag        string
}

type SyncQueueConfig struct {
	Size        int
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration
}

func DefaultSyncQueueConfig() SyncQueueConfig {
	return SyncQueueConfig{
		Size:        256,
		MaxAttempts: 3,
		Backoff:     500 * time.Millisecond,
		Timeout:     30 * time.Second,
	}
}

// SyncQueue runs batchmate flag propagation after the triggering update has
// committed. Failures are retried with exponential backoff, then logged,
// counted and alerted. They never reach the caller of Enqueue.
type SyncQueue struct {
	syncer  Syncer
	alerter Alerter
	config  SyncQueueConfig
	logger  zerolog.Logger

	mu     sync.RWMutex
	closed bool
	tasks  chan SyncTask
	stopCh chan struct{}
	abort  sync.Once
	wg     sync.WaitGroup
}

// NewSyncQueue creates a queue; alerter may be nil.
func NewSyncQueue(syncer Syncer, config SyncQueueConfig, alerter Alerter) *SyncQueue {
	defaults := DefaultSyncQueueConfig()
	if config.Size <= 0 {
		config.Size = defaults.Size
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	return &SyncQueue{
		syncer:  syncer,
		alerter: alerter,
		config:  config,
		logger:  log.WithComponent("sync-queue"),
		tasks:   make(chan SyncTask, config.Size),
		stopCh:  make(chan struct{}),
	}
}

// Start begins the worker loop
func (q *SyncQueue) Start() {
	q.wg.Add(1)
	go q.run()
}

// Stop drains queued tasks and waits for the worker to exit.
func (q *SyncQueue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	q.wg.Wait()
}

// Abort stops the worker without draining or waiting out backoff.
func (q *SyncQueue) Abort() {
	q.abort.Do(func() { close(q.stopCh) })
	q.Stop()
}

// Enqueue schedules a sync and returns the task id. When the queue is full or
// stopped the task is dropped and an empty id is returned.
func (q *SyncQueue) Enqueue(batchmateID uint, flag string) string {
	task := SyncTask{ID: uuid.NewString(), BatchmateID: batchmateID, Flag: flag}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.drop(task, "queue stopped")
		return ""
	}

	select {
	case q.tasks <- task:
		metrics.SyncQueueDepth.Inc()
		return task.ID
	default:
		q.drop(task, "queue full")
		return ""
	}
}

func (q *SyncQueue) drop(task SyncTask, reason string) {
	metrics.SyncTasksTotal.WithLabelValues("dropped").Inc()
	q.logger.Warn().
		Str("task_id", task.ID).
		Uint("batchmate_id", task.BatchmateID).
		Msgf("Dropping attendance sync: %s", reason)
}

func (q *SyncQueue) run() {
	defer q.wg.Done()
	for task := range q.tasks {
		metrics.SyncQueueDepth.Dec()
		q.process(task)
	}
}

func (q *SyncQueue) process(task SyncTask) {
	logger := q.logger.With().Str("task_id", task.ID).Uint("batchmate_id", task.BatchmateID).Logger()

	var lastErr error
	for attempt := 1; attempt <= q.config.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), q.config.Timeout)
		updated, err := q.syncer.SyncBatchmateFlag(ctx, task.BatchmateID, task.Flag)
		cancel()

		metrics.SyncRecordsUpdated.Add(float64(updated))
		if err == nil {
			metrics.SyncTasksTotal.WithLabelValues("succeeded").Inc()
			return
		}

		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Msg("Attendance sync attempt failed")
		if attempt == q.config.MaxAttempts {
			break
		}

		metrics.SyncTasksTotal.WithLabelValues("retried").Inc()
		select {
		case <-time.After(q.config.Backoff << (attempt - 1)):
		case <-q.stopCh:
			lastErr = fmt.Errorf("aborted after attempt %d: %w", attempt, err)
			attempt = q.config.MaxAttempts
		}
	}

	metrics.SyncTasksTotal.WithLabelValues("failed").Inc()
	logger.Error().Err(lastErr).Msg("Error syncing attendance to event-attendance")
	if q.alerter != nil {
		message := fmt.Sprintf("Attendance sync for batchmate %d to %q failed: %v", task.BatchmateID, task.Flag, lastErr)
		if err := q.alerter.Error(message); err != nil {
			logger.Warn().Err(err).Msg("Failed to send sync alert")
		}
	}
}
