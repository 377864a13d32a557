// Package progress turns the loosely formatted progress callbacks of a git
// transfer into a consistent, pollable view of how far the transfer has come.
package progress

// Stage is the coarse step a transfer is in, as shown to the user.
type Stage string

const (
	StagePreparing      Stage = "preparing"
	StageCounting       Stage = "counting"
	StageCompressing    Stage = "compressing"
	StageReceiving      Stage = "receiving"
	StageResolving      Stage = "resolving"
	StageFindingSources Stage = "finding_sources"
	StageCheckingOut    Stage = "checking_out"
	StageDone           Stage = "done"
	StageFailed         Stage = "failed"
)

// Terminal reports whether no further progress can move the transfer out of s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Phase is the transport level step reported with each event.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCounting
	PhaseCompressing
	PhaseWriting
	PhaseReceiving
	PhaseResolving
	PhaseFindingSources
	PhaseCheckingOut
)

var phaseNames = map[Phase]string{
	PhaseNone:           "none",
	PhaseCounting:       "counting",
	PhaseCompressing:    "compressing",
	PhaseWriting:        "writing",
	PhaseReceiving:      "receiving",
	PhaseResolving:      "resolving",
	PhaseFindingSources: "finding_sources",
	PhaseCheckingOut:    "checking_out",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Stage maps a transport phase to the stage it is reported as.
func (p Phase) Stage() Stage {
	switch p {
	case PhaseCounting:
		return StageCounting
	case PhaseCompressing:
		return StageCompressing
	case PhaseWriting, PhaseReceiving:
		return StageReceiving
	case PhaseResolving:
		return StageResolving
	case PhaseFindingSources:
		return StageFindingSources
	case PhaseCheckingOut:
		return StageCheckingOut
	default:
		return StagePreparing
	}
}

// countsTransfer reports whether the current/max counter of a phase measures
// the transfer itself and can stand in for object totals.
func (p Phase) countsTransfer() bool {
	return p == PhaseReceiving || p == PhaseWriting || p == PhaseCheckingOut
}

// Event is a single progress callback from a transport. Max is zero when the
// transport does not know the upper bound.
type Event struct {
	Phase   Phase
	Current int64
	Max     int64
	Message string
}
