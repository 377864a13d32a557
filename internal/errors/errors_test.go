package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewNotFoundError("game not installed", nil)
	assert.Equal(t, "NOT_FOUND: game not installed", err.Error())

	cause := stderrors.New("dial tcp: timeout")
	err = NewNetworkError("clone failed", cause)
	assert.Equal(t, "NETWORK: clone failed (caused by: dial tcp: timeout)", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update: %w", NewAlreadyExistsError("target exists", nil))

	assert.True(t, IsAlreadyExists(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, ErrAlreadyExists, TypeOf(wrapped))
	assert.Equal(t, ErrInternal, TypeOf(stderrors.New("plain")))
}

func TestNewSyncInProgressError(t *testing.T) {
	err := NewSyncInProgressError("clone")
	assert.True(t, IsSyncInProgress(err))
	assert.Contains(t, err.Error(), "clone already in progress")
}

func TestMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("clone: %w", NewNotFoundError("branch missing", stderrors.New("exit status 128")))
	assert.Equal(t, "branch missing", MessageOf(wrapped))
	assert.Equal(t, "plain", MessageOf(stderrors.New("plain")))
}
