package scheduler

import (
	"context"
	"time"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/ableclub/monitor/internal/events"
	"github.com/ableclub/monitor/internal/logger"
	"github.com/ableclub/monitor/internal/metrics"
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CycleStats is what a job body reports back about a successful run; the
// numbers end up on the history record.
type CycleStats struct {
	ScrapedCount int
	NewCount     int
}

// RunFunc is one job body. A returned error makes the attempt count as
// failed and drives the in-cycle retry loop.
type RunFunc func(ctx context.Context) (CycleStats, error)

type historyStore interface {
	Append(ctx context.Context, execution models.JobExecution) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Manager executes one job cycle: bounded retries with escalating backoff,
// exactly one history record per cycle, and a retention sweep of old records.
// Job-body errors never propagate past Execute; the outcome is the only thing
// the caller sees.
type Manager struct {
	history   historyStore
	bus       EventBus.Bus
	retention time.Duration
}

func NewManager(history historyStore, bus EventBus.Bus, retention time.Duration) *Manager {
	return &Manager{history: history, bus: bus, retention: retention}
}

func (m *Manager) Execute(ctx context.Context, def Definition, run RunFunc) models.JobOutcome {

	m.sweepHistory(ctx)

	startedAt := time.Now()
	outcome := models.OutcomeFailure

	var stats CycleStats
	var lastErr error
	var attempts int

	for attempt := 1; attempt <= def.MaxRetries; attempt++ {
		attempts = attempt

		stats, lastErr = runAttempt(ctx, run)
		if lastErr == nil {
			outcome = models.OutcomeSuccess
			break
		}

		if attempt == def.MaxRetries {
			log.Errorf("job %s failed after %d attempts: %v", def.Name, attempt, lastErr)
			break
		}

		wait := def.Backoff[attempt-1]
		log.Warnf("job %s failed (attempt %d/%d), retrying in %v: %v",
			def.Name, attempt, def.MaxRetries, wait, lastErr)
		metrics.RetriedAttemptsCounter.WithLabelValues(def.Name).Inc()

		if !sleepWithContext(ctx, wait) {
			log.Infof("job %s: backoff wait interrupted by shutdown", def.Name)
			break
		}
	}

	finishedAt := time.Now()
	metrics.CycleDuration.WithLabelValues(def.Name).Observe(finishedAt.Sub(startedAt).Seconds())
	metrics.CycleOutcomes.WithLabelValues(def.Name, string(outcome)).Inc()

	execution := models.JobExecution{
		JobName:      def.Name,
		Outcome:      outcome,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		Attempts:     attempts,
		ScrapedCount: stats.ScrapedCount,
		NewCount:     stats.NewCount,
	}
	if outcome == models.OutcomeFailure && lastErr != nil {
		execution.ErrorSummary = lastErr.Error()
	}

	if err := m.history.Append(ctx, execution); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to append execution history for job %s: %v", def.Name, err)
	}

	if outcome == models.OutcomeFailure && m.bus != nil {
		m.bus.Publish(events.CycleFailedTopic, events.CycleFailed{
			JobName:  def.Name,
			Attempts: attempts,
			Error:    execution.ErrorSummary,
		})
	}

	return outcome
}

func (m *Manager) sweepHistory(ctx context.Context) {
	cutoff := time.Now().Add(-m.retention)
	removed, err := m.history.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to sweep execution history: %v", err)
		return
	}
	if removed > 0 {
		log.Infof("removed %d execution records older than %v", removed, cutoff)
	}
}

// runAttempt shields the retry loop from panicking job bodies.
func runAttempt(ctx context.Context, run RunFunc) (stats CycleStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("job body panicked: %v", r)
		}
	}()
	return run(ctx)
}

// sleepWithContext reports false if ctx was cancelled before the wait ended.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
