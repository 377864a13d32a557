package progress

import (
	"sync"
	"time"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Snapshot is a point in time copy of a transfer's progress. A stalled
// snapshot reports done at 100% without setting Complete.
type Snapshot struct {
	Status           string    `json:"status"`
	Operation        string    `json:"operation,omitempty"`
	OperationID      string    `json:"operation_id,omitempty"`
	Stage            Stage     `json:"stage"`
	Percentage       int       `json:"percentage"`
	FractionComplete float64   `json:"fraction_complete"`
	Complete         bool      `json:"is_complete"`
	Stalled          bool      `json:"stalled"`
	TotalObjects     int64     `json:"total_objects"`
	ReceivedObjects  int64     `json:"received_objects"`
	IndexedObjects   int64     `json:"indexed_objects"`
	Speed            float64   `json:"speed"`
	ETA              string    `json:"eta"`
	ETASeconds       float64   `json:"eta_seconds"`
	Message          string    `json:"message"`
	Error            string    `json:"error,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	LastUpdatedAt    time.Time `json:"last_updated_at"`
	ElapsedSeconds   float64   `json:"elapsed_seconds"`
}

func (s *Snapshot) complete() {
	s.Percentage = 100
	s.Stage = StageDone
	s.Complete = true
	s.FractionComplete = 1.0
	s.ETA = ""
	s.ETASeconds = 0
}

// Tracker owns the record of the most recent transfer. Starting a new
// transfer replaces the record; holders of the previous one can still read it.
type Tracker struct {
	mu      sync.RWMutex
	current *State
	opts    []Option
}

// NewTracker creates a tracker whose records are built with opts.
func NewTracker(opts ...Option) *Tracker {
	return &Tracker{opts: opts}
}

// Begin starts a fresh record for operation and makes it the current one.
func (t *Tracker) Begin(operation, id string) *State {
	s := NewState(operation, id, t.opts...)
	t.mu.Lock()
	t.current = s
	t.mu.Unlock()
	return s
}

// Current returns the live record, or nil before the first transfer.
func (t *Tracker) Current() *State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Snapshot returns the progress of the current transfer. Before any transfer
// has started it returns an empty preparing snapshot.
func (t *Tracker) Snapshot() Snapshot {
	if s := t.Current(); s != nil {
		return s.Snapshot()
	}
	return Snapshot{Status: StatusOK, Stage: StagePreparing}
}
