package gitsync

import (
	"context"
	"encoding/base64"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

const stderrTail = 4096

// CLITransport shells out to the git binary and parses its --progress output.
type CLITransport struct {
	binary string
	token  string
}

// NewCLITransport creates a transport running binary, or "git" from PATH when
// binary is empty.
func NewCLITransport(binary, token string) *CLITransport {
	if binary == "" {
		binary = "git"
	}
	return &CLITransport{binary: binary, token: token}
}

func (t *CLITransport) Name() string { return TransportCLI }

func (t *CLITransport) Clone(ctx context.Context, cfg Config, sink Sink) error {
	return t.run(ctx, "clone", "", sink,
		"clone", "--progress", "--branch", cfg.Branch, cfg.RemoteURL, cfg.LocalPath)
}

func (t *CLITransport) Update(ctx context.Context, cfg Config, sink Sink) error {
	if err := t.run(ctx, "checkout", cfg.LocalPath, sink, "checkout", "--progress", cfg.Branch); err != nil {
		return err
	}
	return t.run(ctx, "pull", cfg.LocalPath, sink,
		"pull", "--progress", "--ff-only", remoteName, cfg.Branch)
}

// command builds a git invocation. The token travels as environment config so
// it never shows up in the process arguments.
func (t *CLITransport) command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, t.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	if t.token != "" {
		header := "Authorization: Basic " + base64.StdEncoding.EncodeToString([]byte("x-access-token:"+t.token))
		cmd.Env = append(cmd.Env,
			"GIT_CONFIG_COUNT=1",
			"GIT_CONFIG_KEY_0=http.extraHeader",
			"GIT_CONFIG_VALUE_0="+header,
		)
	}
	return cmd
}

func (t *CLITransport) run(ctx context.Context, op, dir string, sink Sink, args ...string) error {
	cmd := t.command(ctx, dir, args...)

	w := NewProgressWriter(sink)
	tail := &tailBuffer{limit: stderrTail}
	cmd.Stderr = io.MultiWriter(w, tail)
	cmd.Stdout = tail

	err := cmd.Run()
	w.Flush()
	if err != nil {
		return &TransportError{Op: op, Output: tail.String(), Err: err}
	}
	return nil
}

// tailBuffer keeps the last limit bytes written to it. Stdout and stderr are
// copied from separate goroutines.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

// String returns the retained output without progress meter lines.
func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var kept []string
	for _, l := range strings.FieldsFunc(string(b.buf), func(r rune) bool { return r == '\n' || r == '\r' }) {
		l = strings.TrimSpace(l)
		if l == "" || strings.Contains(l, "%") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "; ")
}
