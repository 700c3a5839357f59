// Package httpretry implements the retry/backoff policy shared by every
// outbound REST client (suppliers and the CMS).
package httpretry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// Only this much of an error body is kept for the normalized message.
const maxErrorBody = 8 << 10

// Policy controls how failed requests are retried.
// Delay before retry attempt n is
// min(MaxDelay, InitialDelay*Multiplier^n) * (1 + rand*JitterFraction).
type Policy struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64
}

// DefaultPolicy returns the policy used by all clients unless overridden.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:     3,
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       time.Second,
		Multiplier:     2,
		JitterFraction: 0.2,
	}
}

// Delay computes the backoff before retry attempt n (0-based).
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt))
	if cap := float64(p.MaxDelay); d > cap {
		d = cap
	}
	if p.JitterFraction > 0 {
		d *= 1 + rand.Float64()*p.JitterFraction
	}
	return time.Duration(d)
}

// APIError is a non-2xx response normalized into a single error value.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status from an APIError chain, 0 otherwise.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Retryable reports whether a response status is worth retrying: server
// errors, rate limiting and request timeouts. Other client errors fail fast.
func Retryable(status int) bool {
	return status >= 500 ||
		status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout
}

// Do executes the request up to 1+MaxRetries times. newReq must build a
// fresh request (and body) per attempt. On success the response is returned
// with its body unread; the caller owns closing it. Network errors and
// retryable statuses back off per the policy, other statuses return an
// *APIError immediately.
func Do(ctx context.Context, client *http.Client, policy Policy, newReq func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		req, err := newReq()
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req.WithContext(ctx))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("network error: %w", err)
		} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		} else {
			apiErr := &APIError{StatusCode: resp.StatusCode, Message: readErrorBody(resp)}
			if !Retryable(resp.StatusCode) {
				return nil, apiErr
			}
			lastErr = apiErr
		}

		if attempt >= policy.MaxRetries {
			return nil, lastErr
		}
		if err := wait(ctx, policy.Delay(attempt)); err != nil {
			return nil, err
		}
	}
}

func readErrorBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return http.StatusText(resp.StatusCode)
	}
	return strings.TrimSpace(string(body))
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
