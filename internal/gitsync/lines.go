package gitsync

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

var countPattern = regexp.MustCompile(`\((\d+)/(\d+)\)`)

var phasePrefixes = []struct {
	prefix string
	phase  progress.Phase
}{
	{"Enumerating objects", progress.PhaseCounting},
	{"Counting objects", progress.PhaseCounting},
	{"Compressing objects", progress.PhaseCompressing},
	{"Writing objects", progress.PhaseWriting},
	{"Receiving objects", progress.PhaseReceiving},
	{"Resolving deltas", progress.PhaseResolving},
	{"Finding sources", progress.PhaseFindingSources},
	{"Checking out files", progress.PhaseCheckingOut},
	{"Updating files", progress.PhaseCheckingOut},
}

// ParseLine turns one line of git progress output into an event. Blank lines
// report ok=false.
func ParseLine(line string) (progress.Event, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimPrefix(line, "remote:"))
	if line == "" {
		return progress.Event{}, false
	}

	ev := progress.Event{Message: line}
	for _, p := range phasePrefixes {
		if strings.HasPrefix(line, p.prefix) {
			ev.Phase = p.phase
			break
		}
	}

	if m := countPattern.FindStringSubmatch(line); m != nil {
		current, errA := strconv.ParseInt(m[1], 10, 64)
		limit, errB := strconv.ParseInt(m[2], 10, 64)
		if errA == nil && errB == nil {
			ev.Current, ev.Max = current, limit
		}
	}
	return ev, true
}

// ProgressWriter splits git progress output on carriage returns and newlines
// and feeds each complete line to a sink.
type ProgressWriter struct {
	mu   sync.Mutex
	sink Sink
	buf  []byte
}

// NewProgressWriter returns a writer that reports to sink.
func NewProgressWriter(sink Sink) *ProgressWriter {
	return &ProgressWriter{sink: sink}
}

func (w *ProgressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range p {
		if b == '\r' || b == '\n' {
			w.emit()
			continue
		}
		w.buf = append(w.buf, b)
	}
	return len(p), nil
}

// Flush reports any trailing partial line.
func (w *ProgressWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emit()
}

func (w *ProgressWriter) emit() {
	if len(w.buf) == 0 {
		return
	}
	line := string(w.buf)
	w.buf = w.buf[:0]
	if ev, ok := ParseLine(line); ok && w.sink != nil {
		w.sink(ev)
	}
}
