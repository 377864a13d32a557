package gitsync

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/Kamar-Folarin/game-updater/internal/errors"
)

// TransportError is a failed git command together with what it printed.
type TransportError struct {
	Op     string
	Output string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git %s failed: %v: %s", e.Op, e.Err, e.Output)
	}
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

var (
	alreadyExistsPhrases = []string{
		"already exists and is not an empty directory",
		"repository already exists",
	}
	authPhrases = []string{
		"authentication failed",
		"authentication required",
		"authorization failed",
		"could not read username",
		"could not read password",
		"permission denied",
		"returned error: 401",
		"returned error: 403",
	}
	notFoundPhrases = []string{
		"repository not found",
		"not found",
		"does not appear to be a git repository",
		"couldn't find remote ref",
		"did not match any file(s) known to git",
		"not a git repository",
		"remote repository is empty",
	}
	networkPhrases = []string{
		"could not resolve host",
		"no such host",
		"connection refused",
		"connection reset",
		"connection timed out",
		"timeout",
		"timed out",
		"network is unreachable",
		"unable to access",
		"early eof",
		"tls handshake",
		"dial tcp",
		"temporary failure",
	}
)

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Classify maps a transport failure onto an application error. Known go-git
// sentinels are checked first, then the error text.
func Classify(op string, err error) *errors.AppError {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	message := fmt.Sprintf("%s failed", op)
	text := strings.ToLower(err.Error())
	var netErr net.Error

	switch {
	case stderrors.Is(err, git.ErrRepositoryAlreadyExists),
		containsAny(text, alreadyExistsPhrases):
		return errors.NewAlreadyExistsError(message+": target already exists", err)
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed),
		containsAny(text, authPhrases):
		return errors.NewUnauthorizedError(message+": access denied", err)
	case stderrors.Is(err, transport.ErrRepositoryNotFound),
		stderrors.Is(err, transport.ErrEmptyRemoteRepository),
		stderrors.Is(err, git.ErrRepositoryNotExists),
		stderrors.Is(err, git.ErrBranchNotFound),
		stderrors.Is(err, plumbing.ErrReferenceNotFound),
		containsAny(text, notFoundPhrases):
		return errors.NewNotFoundError(message+": repository or branch not found", err)
	case stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(err, context.Canceled),
		stderrors.As(err, &netErr),
		containsAny(text, networkPhrases):
		return errors.NewNetworkError(message+": network error", err)
	default:
		return errors.NewInternalError(message, err)
	}
}
