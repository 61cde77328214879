package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind says whether a provider failure is worth retrying
type ErrorKind int

const (
	KindRetryable ErrorKind = iota
	KindTerminal
)

func (k ErrorKind) String() string {
	if k == KindRetryable {
		return "retryable"
	}
	return "terminal"
}

// ProviderError wraps a failure from an external provider (AI model, GitHub, blog host)
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned %d (%s): %v", e.Provider, e.StatusCode, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a provider failure that may succeed on retry
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind == KindRetryable
	}
	return false
}

// statusError classifies a non-2xx HTTP response
func statusError(provider string, status int, body []byte) error {
	kind := KindTerminal
	if status == http.StatusTooManyRequests || status >= 500 {
		kind = KindRetryable
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return &ProviderError{
		Provider:   provider,
		Kind:       kind,
		StatusCode: status,
		Err:        errors.New(string(body)),
	}
}

// transportError classifies a failure to complete an HTTP round trip.
// Timeouts and dropped connections are retryable, caller cancellation is not.
func transportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &ProviderError{Provider: provider, Kind: KindRetryable, Err: err}
}

// retryBackoff is the wait before attempt i+1
var retryBackoff = func(i int) time.Duration {
	return time.Duration(500*(1<<i)) * time.Millisecond
}

// withRetry runs fn up to attempts times, backing off between retryable failures.
// Terminal errors and context cancellation stop immediately.
func withRetry[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsRetryable(err) || i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(retryBackoff(i)):
		}
	}
	return zero, lastErr
}
