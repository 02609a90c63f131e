package scheduler

import (
	"time"

	"github.com/pkg/errors"
)

// ErrConfiguration marks a job definition that cannot be registered.
var ErrConfiguration = errors.New("invalid job configuration")

const (
	DefaultMaxRetries     = 3
	DefaultPauseThreshold = 3
	DefaultPauseDuration  = 6 * time.Hour
)

func DefaultBackoff() []time.Duration {
	return []time.Duration{time.Minute, 2 * time.Minute, 3 * time.Minute}
}

// Definition is the static configuration of one recurring job. It is fixed at
// registration time for the lifetime of the process.
type Definition struct {
	Name string

	// Interval between firings, measured from the previous firing time.
	Interval time.Duration

	// MaxRetries caps the attempts within one cycle.
	MaxRetries int

	// Backoff holds the wait before retry n+1; needs MaxRetries-1 entries.
	Backoff []time.Duration

	// PauseThreshold is the number of consecutive failed cycles after which
	// the job is paused for PauseDuration.
	PauseThreshold int
	PauseDuration  time.Duration
}

func (d *Definition) applyDefaults() {
	if d.MaxRetries == 0 {
		d.MaxRetries = DefaultMaxRetries
	}
	if d.Backoff == nil {
		d.Backoff = DefaultBackoff()
	}
	if d.PauseThreshold == 0 {
		d.PauseThreshold = DefaultPauseThreshold
	}
	if d.PauseDuration == 0 {
		d.PauseDuration = DefaultPauseDuration
	}
}

func (d Definition) validate() error {
	if d.Name == "" {
		return errors.Wrap(ErrConfiguration, "job name is empty")
	}
	if d.Interval <= 0 {
		return errors.Wrapf(ErrConfiguration, "job %s: interval must be positive", d.Name)
	}
	if d.MaxRetries < 1 {
		return errors.Wrapf(ErrConfiguration, "job %s: max retries must be at least 1", d.Name)
	}
	if len(d.Backoff) < d.MaxRetries-1 {
		return errors.Wrapf(ErrConfiguration, "job %s: backoff schedule needs at least %d entries, got %d",
			d.Name, d.MaxRetries-1, len(d.Backoff))
	}
	if d.PauseThreshold < 1 {
		return errors.Wrapf(ErrConfiguration, "job %s: pause threshold must be at least 1", d.Name)
	}
	if d.PauseDuration <= 0 {
		return errors.Wrapf(ErrConfiguration, "job %s: pause duration must be positive", d.Name)
	}
	return nil
}
