package events

import "time"

var JobPausedTopic = "JobPausedEvent"

// JobPaused is published when consecutive cycle failures push a job into an
// automatic pause.
type JobPaused struct {
	JobName  string
	Failures int
	Until    time.Time
}
