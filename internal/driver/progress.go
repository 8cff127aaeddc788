package driver

import "time"

// Stage describes one step of rendering a template.
type Stage string

const (
	// StageParse loads and parses the root template.
	StageParse Stage = "parse"
	// StageExpand resolves #include and #if.
	StageExpand Stage = "expand"
	// StageRender serializes the expanded tags.
	StageRender Stage = "render"
	// StageWrite writes the output file.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the template is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the template is finished.
	StatusDone Status = "done"
	// StatusError indicates the template failed; details are in its bag.
	StatusError Status = "error"
)

// Event reports progress for one template, keyed by the path given to
// Render or listed by RenderDir.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. It is called from worker
// goroutines and must be safe for concurrent use.
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

func (o Options) emit(file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if o.Progress == nil {
		return
	}
	o.Progress.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
