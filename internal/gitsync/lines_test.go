package gitsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected progress.Event
		ok       bool
	}{
		{
			name: "remote counting",
			line: "remote: Counting objects:  40% (4/10)",
			expected: progress.Event{
				Phase: progress.PhaseCounting, Current: 4, Max: 10,
				Message: "Counting objects:  40% (4/10)",
			},
			ok: true,
		},
		{
			name: "receiving with speed",
			line: "Receiving objects:  66% (835/1254), 12.00 MiB | 1.50 MiB/s",
			expected: progress.Event{
				Phase: progress.PhaseReceiving, Current: 835, Max: 1254,
				Message: "Receiving objects:  66% (835/1254), 12.00 MiB | 1.50 MiB/s",
			},
			ok: true,
		},
		{
			name: "resolving deltas",
			line: "Resolving deltas: 100% (20/20), done.",
			expected: progress.Event{
				Phase: progress.PhaseResolving, Current: 20, Max: 20,
				Message: "Resolving deltas: 100% (20/20), done.",
			},
			ok: true,
		},
		{
			name: "updating files",
			line: "Updating files:  50% (2/4)",
			expected: progress.Event{
				Phase: progress.PhaseCheckingOut, Current: 2, Max: 4,
				Message: "Updating files:  50% (2/4)",
			},
			ok: true,
		},
		{
			name:     "summary line",
			line:     "remote: Total 1254 (delta 20), reused 0 (delta 0), pack-reused 0",
			expected: progress.Event{Message: "Total 1254 (delta 20), reused 0 (delta 0), pack-reused 0"},
			ok:       true,
		},
		{
			name: "blank",
			line: "remote:   ",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, ev)
		})
	}
}

func TestProgressWriter(t *testing.T) {
	var events []progress.Event
	w := NewProgressWriter(func(ev progress.Event) { events = append(events, ev) })

	_, err := w.Write([]byte("Receiving objects:  10% (1/10)\rReceiving objects:  20% (2/10)\r"))
	assert.NoError(t, err)
	_, err = w.Write([]byte("Receiving objects: 100% (10/10), done.\nResolving del"))
	assert.NoError(t, err)
	_, err = w.Write([]byte("tas: 100% (3/3)"))
	assert.NoError(t, err)
	w.Flush()

	if assert.Len(t, events, 4) {
		assert.Equal(t, int64(1), events[0].Current)
		assert.Equal(t, int64(2), events[1].Current)
		assert.Equal(t, "Receiving objects: 100% (10/10), done.", events[2].Message)
		assert.Equal(t, progress.PhaseResolving, events[3].Phase)
	}
}
