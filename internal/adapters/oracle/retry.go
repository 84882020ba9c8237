package oracle

import (
	"context"
	"errors"
	"net"
	"time"

	"google.golang.org/genai"
)

// retryPolicy bounds how often a transient oracle failure is retried.
type retryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

var defaultRetry = retryPolicy{MaxAttempts: 4, Backoff: 200 * time.Millisecond}

// do retries transient failures (rate limits, 5xx responses, network errors)
// using exponential backoff while respecting context cancellation.
func (p retryPolicy) do(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	attempts := max(p.MaxAttempts, 1)
	backoff := p.Backoff

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := call(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isTransient(err) || attempt == attempts {
			return "", lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return "", lastErr
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
