package events

var CycleFailedTopic = "CycleFailedEvent"

// CycleFailed is published when a job cycle has exhausted all of its retries.
type CycleFailed struct {
	JobName  string
	Attempts int
	Error    string
}
