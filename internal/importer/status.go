package importer

import (
	"sync"
	"time"
)

// Status is a point-in-time view of import activity.
type Status struct {
	IsRunning        bool       `json:"is_running"`
	CurrentOperation string     `json:"current_operation,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	PercentComplete  float64    `json:"percent_complete"`
}

// Tracker holds the process-wide import status. It is safe for concurrent
// use; readers always receive a copy.
//
// Runs nest: a full import begins once and its stages begin again inside it.
// Only the outermost Finish returns the tracker to idle.
type Tracker struct {
	mu     sync.Mutex
	status Status
	depth  int
	now    func() time.Time
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{now: func() time.Time { return time.Now().UTC() }}
}

// Begin opens a run. The outermost Begin stamps StartedAt and resets the
// percent; nested calls leave the status untouched.
func (t *Tracker) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.depth++
	if t.depth > 1 {
		return
	}
	started := t.now()
	t.status = Status{IsRunning: true, StartedAt: &started}
}

// Update marks an import as running with the given operation and percent.
// StartedAt is stamped on the transition from idle to running only.
func (t *Tracker) Update(operation string, percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.status.IsRunning {
		started := t.now()
		t.status.StartedAt = &started
	}
	t.status.IsRunning = true
	t.status.CurrentOperation = operation
	t.status.PercentComplete = percent
}

// Finish closes a run and marks the tracker idle once no enclosing run is
// open. StartedAt keeps the last run's start until the next run begins.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.depth > 0 {
		t.depth--
	}
	if t.depth > 0 {
		return
	}
	t.status.IsRunning = false
	t.status.CurrentOperation = ""
	t.status.PercentComplete = 100
}

// Snapshot returns a copy of the current status.
func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.status
	if s.StartedAt != nil {
		started := *s.StartedAt
		s.StartedAt = &started
	}
	return s
}
