package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const retryDelay = 500 * time.Millisecond

// RetryChecker drives one target through its retry budget and produces the
// target's single terminal Result. First success wins: an ok attempt returns
// immediately regardless of remaining budget. When every attempt fails, only
// the last attempt's cause is reported.
type RetryChecker struct {
	Prober   Prober
	Defaults Defaults
	Logger   *zap.Logger
	Delay    time.Duration // inter-attempt delay; defaults to retryDelay
}

func NewRetryChecker(p Prober, d Defaults, logger *zap.Logger) *RetryChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(d.Ranges) == 0 {
		d.Ranges = DefaultRanges()
	}
	return &RetryChecker{
		Prober:   p,
		Defaults: d,
		Logger:   logger,
		Delay:    retryDelay,
	}
}

// Run probes a single target until it succeeds or the retry budget runs out.
// A disabled target short-circuits to a skipped result with zero network
// activity. No failure escapes as an error; everything degrades to a fail
// result for this one target.
func (r *RetryChecker) Run(ctx context.Context, t Target) Result {
	if t.Disabled {
		return Result{URL: t.URL, Status: StatusSkipped, Reason: "disabled"}
	}

	timeout, retries := r.effective(t)
	delay := r.Delay
	if delay <= 0 {
		delay = retryDelay
	}

	var lastErr string
	for attempt := 0; attempt <= retries; attempt++ {
		out := r.Prober.Attempt(ctx, t.URL, timeout)
		if out.Err == "" {
			ok := IsStatusOK(out.StatusCode, t.ExpectedStatus, r.Defaults.Ranges)
			if ok && t.Keyword != "" {
				ok = KeywordOK(t.Keyword, out.Body)
				if !ok {
					r.Logger.Debug("keyword_miss",
						zap.String("url", t.URL),
						zap.String("keyword", t.Keyword),
					)
				}
			}
			if ok {
				return Result{URL: t.URL, Status: StatusOK, HTTPStatus: out.StatusCode}
			}
			lastErr = unexpectedStatus(out.StatusCode, t.ExpectedStatus)
		} else {
			lastErr = out.Err
		}

		r.Logger.Debug("attempt_failed",
			zap.String("url", t.URL),
			zap.Int("attempt", attempt+1),
			zap.Int("budget", retries+1),
			zap.String("cause", lastErr),
		)
		if attempt < retries {
			time.Sleep(delay)
		}
	}

	return Result{URL: t.URL, Status: StatusFail, Error: lastErr}
}

// effective resolves the target's timeout and retry count: target override,
// then batch default, then the built-in fallback.
func (r *RetryChecker) effective(t Target) (time.Duration, int) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = r.Defaults.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retries := DefaultRetries
	if r.Defaults.Retries != nil {
		retries = *r.Defaults.Retries
	}
	if t.Retries != nil {
		retries = *t.Retries
	}
	if retries < 0 {
		retries = 0
	}
	return timeout, retries
}

func unexpectedStatus(status int, expected *int) string {
	if expected != nil {
		return fmt.Sprintf("Unexpected status %d (expected %d)", status, *expected)
	}
	return fmt.Sprintf("Unexpected status %d", status)
}
