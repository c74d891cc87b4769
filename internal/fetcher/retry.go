package fetcher

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"

	applog "github.com/hallyusync/concert-sync/internal/applog"
)

// Retry parameters per spec §4.1: "Retry up to 3 attempts with exponential
// back-off (base 1 s, min 2 s, max 10 s) only on HTTP 5xx/transient status
// and connect errors; do not retry on 4xx or parse errors."
const (
	defaultMaxRetries   = 3
	defaultBaseDelay    = 1 * time.Second
	defaultMinRetryWait = 2 * time.Second
	defaultMaxRetryWait = 10 * time.Second
)

// RetryFetcher decorates a Fetcher with the crawler's fixed retry policy:
// exponential backoff with full jitter, retried only for 5xx responses and
// connection-level errors. 4xx responses and request-construction errors
// pass straight through — they are never transient.
type RetryFetcher struct {
	delegate Fetcher

	maxRetries int
	minWait    time.Duration
	maxWait    time.Duration
}

var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher wraps delegate with the spec's default retry policy.
func NewRetryFetcher(delegate Fetcher) *RetryFetcher {
	return &RetryFetcher{
		delegate:   delegate,
		maxRetries: defaultMaxRetries,
		minWait:    defaultMinRetryWait,
		maxWait:    defaultMaxRetryWait,
	}
}

// Do issues req through the delegate, retrying on 5xx responses and
// connect-level transport errors up to maxRetries times.
func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	var lastErr error
	var lastResp *http.Response

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt, defaultBaseDelay, f.minWait, f.maxWait)

			fields := applog.Fields{
				"url":     redactURL(req.URL),
				"attempt": attempt,
				"delay":   delay.String(),
			}
			if lastErr != nil {
				fields["error"] = lastErr.Error()
			}
			if lastResp != nil {
				fields["status_code"] = lastResp.StatusCode
			}
			applog.WithComponentAndFields(component, fields).Warn("일시적 오류로 재시도 대기 중")

			timer := time.NewTimer(delay)
			select {
			case <-req.Context().Done():
				timer.Stop()
				return nil, req.Context().Err()
			case <-timer.C:
			}
		}

		resp, err := f.delegate.Do(req)
		if err == nil && !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if err != nil && !isRetryableError(err) {
			return resp, err
		}

		isLastAttempt := attempt == f.maxRetries
		if resp != nil && !isLastAttempt {
			drainAndCloseBody(resp.Body)
		}

		lastErr = err
		lastResp = resp
	}

	return lastResp, lastErr
}

// backoffDelay computes exponential backoff (base * 2^(attempt-1)) capped at
// maxWait, with full jitter, then floored at minWait.
func backoffDelay(attempt int, base, minWait, maxWait time.Duration) time.Duration {
	delay := base * time.Duration(1<<uint(attempt-1))
	if delay > maxWait {
		delay = maxWait
	}
	if delay > 0 {
		delay = time.Duration(rand.Int64N(int64(delay) + 1))
	}
	if delay < minWait {
		delay = minWait
	}
	return delay
}

// isRetryableStatus reports whether status is a 5xx/transient HTTP status
// per spec §4.1. 4xx is never retried.
func isRetryableStatus(status int) bool {
	return status >= 500 && status < 600
}

// isRetryableError reports whether err is a connect-level transport error
// (dial/timeout/connection reset) rather than a context cancellation or
// other non-transient failure.
func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

// redactURL strips userinfo (rarely present, but these sites are queried
// over plain https) before a URL reaches the log stream.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	redacted := *u
	redacted.User = nil
	return redacted.String()
}
