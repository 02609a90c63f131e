package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/ableclub/monitor/internal/events"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// JobStatus is the administrative view of one job.
type JobStatus struct {
	Name                string     `json:"name"`
	Status              Status     `json:"status"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	PausedUntil         *time.Time `json:"paused_until,omitempty"`
}

var ErrJobNotFound = errors.New("job is not registered")

type jobEntry struct {
	def Definition
	run RunFunc

	status              Status
	consecutiveFailures int

	// pausedUntil is set for automatic pauses; manuallyPaused pauses the job
	// until an explicit ForceResume.
	pausedUntil    time.Time
	manuallyPaused bool
}

// Scheduler owns the recurring triggers and the per-job run state. All state
// transitions happen under one mutex, because cron fires every trigger on its
// own goroutine; single-flight comes from skipping a firing whose job is
// still marked running.
type Scheduler struct {
	cron    *cron.Cron
	manager *Manager

	mu      sync.Mutex
	jobs    map[string]*jobEntry
	ctx     context.Context
	started bool
}

func New(manager *Manager) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		manager: manager,
		jobs:    make(map[string]*jobEntry),
	}
}

// Register associates a job definition with its body. Definitions are
// immutable afterwards.
func (s *Scheduler) Register(def Definition, run RunFunc) error {

	def.applyDefaults()
	if err := def.validate(); err != nil {
		return err
	}
	if run == nil {
		return errors.Wrapf(ErrConfiguration, "job %s: run func is nil", def.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.Wrapf(ErrConfiguration, "job %s: scheduler already started", def.Name)
	}
	if _, exists := s.jobs[def.Name]; exists {
		return errors.Wrapf(ErrConfiguration, "job %s is already registered", def.Name)
	}

	s.jobs[def.Name] = &jobEntry{def: def, run: run, status: StatusIdle}
	return nil
}

// Start fires every registered job once immediately, then every interval
// measured from the previous firing time.
func (s *Scheduler) Start(ctx context.Context) {

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.ctx = ctx

	for name, entry := range s.jobs {
		name := name
		s.cron.Schedule(cron.Every(entry.def.Interval), cron.FuncJob(func() {
			s.fire(name)
		}))
		go s.fire(name)
		log.Infof("job %s scheduled every %v", name, entry.def.Interval)
	}
	s.mu.Unlock()

	s.cron.Start()
	log.Info("job scheduler started")
}

// Stop cancels future firings; a cycle already in flight runs to completion.
// The returned context is done once in-flight jobs have finished.
func (s *Scheduler) Stop() context.Context {
	log.Info("job scheduler stopping")
	return s.cron.Stop()
}

// fire is the single entry point for every trigger of a job, immediate or
// recurring. It makes the firing decision, runs the cycle through the
// manager and applies the outcome to the run state.
func (s *Scheduler) fire(name string) {

	s.mu.Lock()
	entry, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return
	}

	switch entry.status {
	case StatusRunning:
		// previous cycle still in flight, this firing is dropped
		s.mu.Unlock()
		log.Infof("job %s is still running, skipping firing", name)
		return
	case StatusPaused:
		if entry.manuallyPaused || time.Now().Before(entry.pausedUntil) {
			s.mu.Unlock()
			log.Infof("job %s is paused, skipping firing", name)
			return
		}
		entry.pausedUntil = time.Time{}
		log.Infof("job %s pause window elapsed, resuming", name)
	}

	entry.status = StatusRunning
	def, run, ctx := entry.def, entry.run, s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Unlock()

	outcome := s.manager.Execute(ctx, def, run)

	s.mu.Lock()

	var paused *events.JobPaused
	if outcome == models.OutcomeSuccess {
		entry.consecutiveFailures = 0
		entry.status = StatusIdle
	} else {
		entry.consecutiveFailures++
		if entry.consecutiveFailures >= def.PauseThreshold {
			entry.status = StatusPaused
			entry.pausedUntil = time.Now().Add(def.PauseDuration)
			paused = &events.JobPaused{
				JobName:  name,
				Failures: entry.consecutiveFailures,
				Until:    entry.pausedUntil,
			}
			log.Warnf("job %s paused after %d consecutive failures, will resume at %v",
				name, entry.consecutiveFailures, entry.pausedUntil)
		} else {
			entry.status = StatusIdle
		}
	}

	if entry.manuallyPaused {
		entry.status = StatusPaused
	}
	s.mu.Unlock()

	if paused != nil && s.manager.bus != nil {
		s.manager.bus.Publish(events.JobPausedTopic, *paused)
	}
}

func (s *Scheduler) Status(name string) (JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.jobs[name]
	if !ok {
		return JobStatus{}, errors.Wrap(ErrJobNotFound, name)
	}

	status := JobStatus{
		Name:                name,
		Status:              entry.status,
		ConsecutiveFailures: entry.consecutiveFailures,
	}
	if !entry.pausedUntil.IsZero() {
		pausedUntil := entry.pausedUntil
		status.PausedUntil = &pausedUntil
	}
	return status, nil
}

func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// ForcePause suspends a job until ForceResume, regardless of the failure
// counter. A cycle already in flight finishes first.
func (s *Scheduler) ForcePause(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.jobs[name]
	if !ok {
		return errors.Wrap(ErrJobNotFound, name)
	}

	entry.manuallyPaused = true
	if entry.status != StatusRunning {
		entry.status = StatusPaused
	}
	log.Infof("job %s paused manually", name)
	return nil
}

// ForceResume lifts both manual and automatic pauses without touching the
// failure counter.
func (s *Scheduler) ForceResume(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.jobs[name]
	if !ok {
		return errors.Wrap(ErrJobNotFound, name)
	}

	entry.manuallyPaused = false
	entry.pausedUntil = time.Time{}
	if entry.status == StatusPaused {
		entry.status = StatusIdle
	}
	log.Infof("job %s resumed manually", name)
	return nil
}
