// Package backoff retries outbound calls with exponential backoff and jitter.
package backoff

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const (
	DefaultAttempts = 5
	DefaultDelay    = 500 * time.Millisecond
	DefaultMaxDelay = 30 * time.Second
)

type Policy struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay, MaxDelay: DefaultMaxDelay}
}

// TemporaryError marks a failure worth another attempt: rate limits, 5xx answers.
type TemporaryError struct {
	Err error
}

func (e *TemporaryError) Error() string { return e.Err.Error() }

func (e *TemporaryError) Unwrap() error { return e.Err }

func Temporary(err error) error {
	return &TemporaryError{Err: err}
}

// Retryable reports whether err should be retried. Besides explicit TemporaryError
// values this covers network timeouts and connections dropped mid-response.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var tmp *TemporaryError
	if errors.As(err, &tmp) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts are
// spent or ctx is done. Only the last error is returned.
func Do(ctx context.Context, log *slog.Logger, operation string, p Policy, fn func() error) error {
	if p.Attempts == 0 {
		p = DefaultPolicy()
	}
	if p.MaxDelay == 0 {
		p.MaxDelay = DefaultMaxDelay
	}

	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.Delay),
		retry.MaxDelay(p.MaxDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(p.Delay/4+time.Nanosecond),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("retrying",
				slog.String("operation", operation),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Uint64("max_attempts", uint64(p.Attempts)),
				slog.String("err", err.Error()))
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(Retryable),
	)
}
