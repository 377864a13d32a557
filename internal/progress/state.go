package progress

import (
	"sync"
	"time"
)

// Thresholds tune the time based parts of a snapshot.
type Thresholds struct {
	// Grace is how long a transfer with no signal at all reports as preparing.
	Grace time.Duration
	// StallAfter is the minimum run time before silence counts as a stall.
	StallAfter time.Duration
	// Silence is how long without events counts as a stall.
	Silence time.Duration
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Grace:      3 * time.Second,
		StallAfter: 5 * time.Second,
		Silence:    3 * time.Second,
	}
}

// Option configures a State.
type Option func(*State)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// WithThresholds replaces the default grace and stall thresholds.
func WithThresholds(t Thresholds) Option {
	return func(s *State) {
		s.thresholds = t
	}
}

// State is the live progress record of one transfer. A single producer feeds
// it events while any number of readers take snapshots.
type State struct {
	mu         sync.Mutex
	now        func() time.Time
	thresholds Thresholds

	operation string
	id        string

	stage    Stage
	total    int64
	received int64
	indexed  int64
	current  int64
	max      int64
	message  string
	failure  string

	speed     float64
	speedSeen bool

	fraction float64
	explicit bool
	eta      float64
	sample   Sample

	startedAt     time.Time
	lastUpdatedAt time.Time
}

// NewState starts a fresh record for the named operation.
func NewState(operation, id string, opts ...Option) *State {
	s := &State{
		now:        time.Now,
		thresholds: DefaultThresholds(),
		operation:  operation,
		id:         id,
		stage:      StagePreparing,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	s.lastUpdatedAt = s.startedAt
	s.sample = Sample{At: s.startedAt}
	return s
}

// Apply folds one transport event into the record. Events that arrive after
// the transfer has finished or failed are dropped.
func (s *State) Apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage.Terminal() {
		return
	}

	now := s.now()
	u := Parse(ev)

	s.lastUpdatedAt = now
	s.message = ev.Message
	// Phaseless lines such as the trailing "Total N" summary keep the stage.
	if ev.Phase != PhaseNone {
		s.stage = u.Stage
	}

	// A summary line can report the total before any object is counted, which
	// drops the fraction from the creep value back to the received share.
	if u.Total != nil && *u.Total > 0 {
		s.total = *u.Total
	}
	if u.Received != nil && *u.Received >= 0 {
		s.received = *u.Received
	}
	if u.Indexed != nil && *u.Indexed >= 0 {
		s.indexed = *u.Indexed
	}
	if u.SpeedKBps != nil {
		s.speed = SmoothSpeed(s.speed, *u.SpeedKBps, s.speedSeen)
		s.speedSeen = true
	}

	if ev.Max > 0 && ev.Current >= 0 {
		if ev.Phase.countsTransfer() {
			s.current, s.max = ev.Current, ev.Max
		}
		// Delta resolution is reported against the delta count, so it is
		// rescaled onto the object total.
		if ev.Phase == PhaseResolving && s.total > 0 {
			if indexed := s.total * ev.Current / ev.Max; indexed > s.indexed {
				s.indexed = indexed
			}
		}
	}

	if s.total > 0 {
		s.received = min(s.received, s.total)
		s.indexed = min(s.indexed, s.total)
	}

	s.fraction = EstimateFraction(s.total, s.received, s.indexed, s.current, s.max, now.Sub(s.startedAt))

	if eta, next, ok := EstimateETA(s.sample, s.received, s.total, now); ok {
		s.eta = eta
		s.sample = next
	}
}

// Finalize marks the transfer as successfully complete, whatever the last
// event said.
func (s *State) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage == StageFailed {
		return
	}
	if s.total <= 0 {
		s.total = 100
	}
	s.received = s.total
	s.indexed = s.total
	s.fraction = 1.0
	s.stage = StageDone
	s.explicit = true
	s.eta = 0
	s.lastUpdatedAt = s.now()
}

// Fail marks the transfer as failed. The counters keep their last values.
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage.Terminal() {
		return
	}
	s.stage = StageFailed
	if err != nil {
		s.failure = err.Error()
	}
	s.lastUpdatedAt = s.now()
}

// Stage returns the current stage.
func (s *State) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// ID returns the identifier of the operation the record belongs to.
func (s *State) ID() string {
	return s.id
}

// Snapshot copies the record and derives the user facing view of it.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	elapsed := now.Sub(s.startedAt)
	silence := now.Sub(s.lastUpdatedAt)

	snap := Snapshot{
		Status:           StatusOK,
		Operation:        s.operation,
		OperationID:      s.id,
		Stage:            s.stage,
		FractionComplete: s.fraction,
		TotalObjects:     s.total,
		ReceivedObjects:  s.received,
		IndexedObjects:   s.indexed,
		Speed:            s.speed,
		ETASeconds:       s.eta,
		ETA:              FormatETA(s.eta),
		Message:          s.message,
		StartedAt:        s.startedAt,
		LastUpdatedAt:    s.lastUpdatedAt,
		ElapsedSeconds:   elapsed.Seconds(),
	}

	switch {
	case s.stage == StageFailed:
		snap.Status = StatusError
		snap.Error = s.failure
		snap.Percentage = clampPercentage(s.fraction)
	case s.explicit:
		snap.complete()
	case s.total > 0 && s.received >= s.total && s.indexed >= s.total:
		snap.complete()
	case s.total == 0 && s.received == 0 && s.indexed == 0 && s.fraction == 0 && elapsed < s.thresholds.Grace:
		snap.Percentage = 5
		snap.Stage = StagePreparing
	case elapsed > s.thresholds.StallAfter && silence > s.thresholds.Silence:
		snap.Percentage = 100
		snap.FractionComplete = 1.0
		snap.Stage = StageDone
		snap.Stalled = true
	default:
		snap.Percentage = clampPercentage(s.fraction)
	}

	return snap
}

func clampPercentage(fraction float64) int {
	// The epsilon keeps values like 0.7*0.1 from flooring one point low.
	p := int(fraction*100 + 1e-9)
	if p < 0 {
		return 0
	}
	if p > 99 {
		return 99
	}
	return p
}
