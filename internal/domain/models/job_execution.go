package models

import "time"

type JobOutcome string

const (
	OutcomeSuccess JobOutcome = "success"
	OutcomeFailure JobOutcome = "failure"
)

// JobExecution is one row of the execution-history ledger: a single scheduler
// firing, including any in-cycle retries it took. Never updated once written.
type JobExecution struct {
	ID           int    `gorm:"primaryKey"`
	JobName      string `gorm:"index"`
	Outcome      JobOutcome
	StartedAt    time.Time
	FinishedAt   time.Time
	Attempts     int
	ScrapedCount int
	NewCount     int
	ErrorSummary string
	CreatedAt    time.Time
}
