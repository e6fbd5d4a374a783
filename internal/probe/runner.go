package probe

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Summary aggregates the terminal results of one batch run.
type Summary struct {
	OK    int `json:"ok"`
	Fail  int `json:"fail"`
	Skip  int `json:"skip"`
	Total int `json:"total"`
}

// Success reports the overall run verdict: no target failed.
func (s Summary) Success() bool { return s.Fail == 0 }

// Runner fans a batch of targets out over a bounded number of concurrent
// retry loops and collects exactly one Result per target, in input order.
type Runner struct {
	Checker     *RetryChecker
	Concurrency int
	Logger      *zap.Logger
}

func NewRunner(checker *RetryChecker, concurrency int, logger *zap.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Checker: checker, Concurrency: concurrency, Logger: logger}
}

// Run probes every target and blocks until all retry loops finish. One
// target's failure never cancels another; there is no early termination.
// Each goroutine writes only its own slice index, after its retry loop has
// fully completed, so the result order always mirrors the input order.
func (r *Runner) Run(ctx context.Context, targets []Target) ([]Result, Summary) {
	results := make([]Result, len(targets))

	sem := make(chan struct{}, r.Concurrency)
	var wg sync.WaitGroup

	for i, tgt := range targets {
		i, tgt := i, tgt
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			res := r.Checker.Run(ctx, tgt)
			results[i] = res

			switch res.Status {
			case StatusFail:
				r.Logger.Warn("target_fail",
					zap.String("url", res.URL),
					zap.String("error", res.Error),
				)
			case StatusSkipped:
				r.Logger.Info("target_skipped",
					zap.String("url", res.URL),
					zap.String("reason", res.Reason),
				)
			default:
				r.Logger.Info("target_ok",
					zap.String("url", res.URL),
					zap.Int("status", res.HTTPStatus),
				)
			}
		}()
	}
	wg.Wait()

	summary := Summary{Total: len(results)}
	for _, res := range results {
		switch res.Status {
		case StatusOK:
			summary.OK++
		case StatusSkipped:
			summary.Skip++
		default:
			summary.Fail++
		}
	}
	return results, summary
}
