package gitsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

const remoteName = "origin"

// GoGitTransport runs transfers in process with go-git. The server only
// reports its own phases, so receive progress comes from the final totals.
type GoGitTransport struct {
	auth transport.AuthMethod
}

// NewGoGitTransport creates a go-git transport. A non-empty token is sent as
// HTTP basic auth.
func NewGoGitTransport(token string) *GoGitTransport {
	t := &GoGitTransport{}
	if token != "" {
		t.auth = &githttp.BasicAuth{Username: "x-access-token", Password: token}
	}
	return t
}

func (t *GoGitTransport) Name() string { return TransportGoGit }

func (t *GoGitTransport) Clone(ctx context.Context, cfg Config, sink Sink) error {
	w := NewProgressWriter(sink)
	defer w.Flush()

	_, err := git.PlainCloneContext(ctx, cfg.LocalPath, false, &git.CloneOptions{
		URL:           cfg.RemoteURL,
		Auth:          t.auth,
		RemoteName:    remoteName,
		ReferenceName: plumbing.NewBranchReferenceName(cfg.Branch),
		Progress:      w,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", cfg.RemoteURL, err)
	}
	return nil
}

func (t *GoGitTransport) Update(ctx context.Context, cfg Config, sink Sink) error {
	w := NewProgressWriter(sink)
	defer w.Flush()

	repo, err := git.PlainOpen(cfg.LocalPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.LocalPath, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree %s: %w", cfg.LocalPath, err)
	}

	sink(progress.Event{Phase: progress.PhaseCheckingOut, Message: "Checking out " + cfg.Branch})
	if err := checkoutBranch(repo, wt, cfg.Branch); err != nil {
		return err
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    remoteName,
		ReferenceName: plumbing.NewBranchReferenceName(cfg.Branch),
		SingleBranch:  true,
		Auth:          t.auth,
		Progress:      w,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pull %s: %w", cfg.Branch, err)
	}
	return nil
}

// checkoutBranch switches to branch, creating it from the remote tracking
// branch when it only exists there.
func checkoutBranch(repo *git.Repository, wt *git.Worktree, branch string) error {
	local := plumbing.NewBranchReferenceName(branch)
	err := wt.Checkout(&git.CheckoutOptions{Branch: local})
	if err == nil {
		return nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}

	remoteRef, rerr := repo.Reference(plumbing.NewRemoteReferenceName(remoteName, branch), true)
	if rerr != nil {
		return fmt.Errorf("checkout %s: %w", branch, git.ErrBranchNotFound)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: local, Hash: remoteRef.Hash(), Create: true}); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	return nil
}
