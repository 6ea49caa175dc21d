package backoff_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Deymos01/git-slackin/internal/lib/backoff"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fast = backoff.Policy{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

func TestDo_RetriesTemporary(t *testing.T) {
	t.Parallel()

	calls := 0
	err := backoff.Do(context.Background(), discardLogger(), "test", fast, func() error {
		calls++
		if calls < 3 {
			return backoff.Temporary(errors.New("http 503"))
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanent(t *testing.T) {
	t.Parallel()

	permanent := errors.New("http 404")
	calls := 0
	err := backoff.Do(context.Background(), discardLogger(), "test", fast, func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, calls)
}

func TestDo_GivesUpAfterAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := backoff.Do(context.Background(), discardLogger(), "test", fast, func() error {
		calls++
		return backoff.Temporary(fmt.Errorf("http %d", 500))
	})

	require.Error(t, err)
	require.Equal(t, 3, calls)

	var tmp *backoff.TemporaryError
	require.ErrorAs(t, err, &tmp)
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	require.False(t, backoff.Retryable(nil))
	require.False(t, backoff.Retryable(context.Canceled))
	require.False(t, backoff.Retryable(errors.New("bad request")))
	require.True(t, backoff.Retryable(backoff.Temporary(errors.New("429"))))
	require.True(t, backoff.Retryable(fmt.Errorf("read: %w", io.ErrUnexpectedEOF)))
}
