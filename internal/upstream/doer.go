package upstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"where-to-watch-service/internal/logging"
	"where-to-watch-service/internal/metrics"
)

// Doer executes a single HTTP request. Satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the default client for upstream calls, with the
// per-attempt timeout applied.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// RetryingDoer wraps a Doer with bounded retries and capped exponential
// backoff. Responses with status >= 500 or 429 and transport failures are
// retried; everything else is terminal on the first attempt.
type RetryingDoer struct {
	inner       Doer
	name        string
	logger      *slog.Logger
	metrics     *metrics.Recorder
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingDoer wraps the given Doer. If maxAttempts <= 0 the default is used.
func NewRetryingDoer(inner Doer, name string, logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int) *RetryingDoer {
	if inner == nil {
		inner = NewHTTPClient()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &RetryingDoer{
		inner:       inner,
		name:        name,
		logger:      logger,
		metrics:     recorder,
		maxAttempts: maxAttempts,
		newBackOff:  newExponentialBackOff,
	}
}

func newExponentialBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = backoffBase
	b.Multiplier = 2
	b.MaxInterval = backoffCap
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Do executes the request, retrying retryable failures. The returned response
// always has a 2xx status; every other terminal condition surfaces as *Error.
func (d *RetryingDoer) Do(req *http.Request) (*http.Response, error) {
	bo := d.newBackOff()
	var lastErr error

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		attemptReq, err := d.prepareAttempt(req, attempt)
		if err != nil {
			return nil, &Error{Kind: KindFatal, Upstream: d.name, Err: err}
		}

		start := time.Now()
		resp, err := d.inner.Do(attemptReq)
		d.recordAttempt(time.Since(start), err)

		switch {
		case err != nil:
			// No response at all: network failure, timeout, connection reset.
			lastErr = err
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			lastErr = &Error{Kind: KindUnavailable, Upstream: d.name, Status: resp.StatusCode}
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			drain(resp)
			return nil, &Error{Kind: KindAuth, Upstream: d.name, Status: resp.StatusCode}
		default:
			drain(resp)
			return nil, &Error{Kind: KindFatal, Upstream: d.name, Status: resp.StatusCode}
		}

		if attempt == d.maxAttempts {
			break
		}

		delay := bo.NextBackOff()
		d.logRetry(req.Context(), attempt, delay, lastErr)
		if d.metrics != nil {
			d.metrics.RecordRetry(d.name, delay)
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}
	}

	if upErr, ok := AsError(lastErr); ok {
		return nil, upErr
	}
	return nil, &Error{Kind: KindUnavailable, Upstream: d.name, Err: lastErr}
}

// prepareAttempt clones the request so each attempt gets a fresh body.
func (d *RetryingDoer) prepareAttempt(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 || req.Body == nil || req.GetBody == nil {
		return req, nil
	}
	clone := req.Clone(req.Context())
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}

func (d *RetryingDoer) recordAttempt(duration time.Duration, err error) {
	if d.metrics != nil {
		d.metrics.RecordUpstreamAttempt(d.name, duration, err)
	}
}

func (d *RetryingDoer) logRetry(ctx context.Context, attempt int, delay time.Duration, err error) {
	logger := logging.FromContext(ctx, d.logger)
	logging.Warn(logger, "upstream call retry",
		slog.String(logging.FieldUpstream, d.name),
		slog.Int(logging.FieldAttempt, attempt),
		slog.Int64(logging.FieldDelayMS, delay.Milliseconds()),
		slog.Any("err", err),
	)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
	resp.Body.Close()
}
