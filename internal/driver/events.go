package driver

import "time"

// Status captures the progress of one job of a batch.
type Status string

const (
	// StatusQueued indicates the job is waiting for a worker.
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusDone means the verdict is ok.
	StatusDone Status = "done"
	// StatusFailed means the verdict has errors.
	StatusFailed Status = "failed"
	// StatusError means the job could not run (I/O, cancellation).
	StatusError Status = "error"
)

// Event reports progress of a job (or of the whole batch when Job is empty).
type Event struct {
	Job     string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: batch workers report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }
