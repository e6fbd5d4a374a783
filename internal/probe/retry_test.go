package probe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber replays scripted outcomes; the last one repeats.
type fakeProber struct {
	mu       sync.Mutex
	outcomes []Outcome
	calls    int
}

func (f *fakeProber) Attempt(ctx context.Context, url string, timeout time.Duration) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	i := f.calls - 1
	if i >= len(f.outcomes) {
		i = len(f.outcomes) - 1
	}
	return f.outcomes[i]
}

func (f *fakeProber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestChecker(p Prober, d Defaults) *RetryChecker {
	rc := NewRetryChecker(p, d, nil)
	rc.Delay = time.Millisecond
	return rc
}

func TestRetryChecker_DisabledSkipsWithoutNetwork(t *testing.T) {
	f := &fakeProber{outcomes: []Outcome{{StatusCode: 200}}}
	rc := newTestChecker(f, Defaults{})

	res := rc.Run(context.Background(), Target{URL: "https://example.com", Disabled: true})
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, "disabled", res.Reason)
	assert.Equal(t, 0, f.callCount())
}

func TestRetryChecker_FirstSuccessStopsRetrying(t *testing.T) {
	f := &fakeProber{outcomes: []Outcome{
		{Err: "connection refused"},
		{StatusCode: 200},
	}}
	rc := newTestChecker(f, Defaults{})

	res := rc.Run(context.Background(), Target{URL: "https://example.com", Retries: intp(5)})
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 200, res.HTTPStatus)
	assert.Equal(t, 2, f.callCount())
}

func TestRetryChecker_RetryBudgetIsRetriesPlusOne(t *testing.T) {
	f := &fakeProber{outcomes: []Outcome{{Err: "connection refused"}}}
	rc := newTestChecker(f, Defaults{})

	res := rc.Run(context.Background(), Target{URL: "https://example.com", Retries: intp(2)})
	assert.Equal(t, StatusFail, res.Status)
	assert.Equal(t, 3, f.callCount())
	assert.Equal(t, "connection refused", res.Error)
}

func TestRetryChecker_LastFailureCauseWins(t *testing.T) {
	f := &fakeProber{outcomes: []Outcome{
		{Err: "first cause"},
		{Err: "second cause"},
	}}
	rc := newTestChecker(f, Defaults{})

	res := rc.Run(context.Background(), Target{URL: "https://example.com", Retries: intp(1)})
	require.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "second cause", res.Error)
}

func TestRetryChecker_UnexpectedStatusMentionsExpected(t *testing.T) {
	f := &fakeProber{outcomes: []Outcome{{StatusCode: 500}}}
	rc := newTestChecker(f, Defaults{})

	res := rc.Run(context.Background(), Target{
		URL:            "https://example.com",
		ExpectedStatus: intp(200),
		Retries:        intp(0),
	})
	require.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "Unexpected status 500 (expected 200)", res.Error)
}

func TestRetryChecker_UnexpectedStatusWithoutExpected(t *testing.T) {
	f := &fakeProber{outcomes: []Outcome{{StatusCode: 404}}}
	rc := newTestChecker(f, Defaults{})

	res := rc.Run(context.Background(), Target{URL: "https://example.com", Retries: intp(0)})
	require.Equal(t, StatusFail, res.Status)
	assert.Equal(t, "Unexpected status 404", res.Error)
}

func TestRetryChecker_ExpectedStatusOverridesRanges(t *testing.T) {
	f := &fakeProber{outcomes: []Outcome{{StatusCode: 404}}}
	rc := newTestChecker(f, Defaults{})

	res := rc.Run(context.Background(), Target{
		URL:            "https://example.com",
		ExpectedStatus: intp(404),
		Retries:        intp(0),
	})
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 404, res.HTTPStatus)
}

func TestRetryChecker_KeywordGate(t *testing.T) {
	t.Run("missing keyword fails a status-ok response", func(t *testing.T) {
		f := &fakeProber{outcomes: []Outcome{{StatusCode: 200, Body: "goodbye world"}}}
		rc := newTestChecker(f, Defaults{})

		res := rc.Run(context.Background(), Target{
			URL:     "https://example.com",
			Keyword: "hello",
			Retries: intp(0),
		})
		assert.Equal(t, StatusFail, res.Status)
	})

	t.Run("keyword match is case-insensitive", func(t *testing.T) {
		f := &fakeProber{outcomes: []Outcome{{StatusCode: 200, Body: "Hello World"}}}
		rc := newTestChecker(f, Defaults{})

		res := rc.Run(context.Background(), Target{
			URL:     "https://example.com",
			Keyword: "HELLO",
			Retries: intp(0),
		})
		assert.Equal(t, StatusOK, res.Status)
	})
}

func TestRetryChecker_EffectiveDefaults(t *testing.T) {
	rc := newTestChecker(&fakeProber{outcomes: []Outcome{{StatusCode: 200}}}, Defaults{})

	// neither target nor defaults set anything: built-in fallbacks apply
	timeout, retries := rc.effective(Target{URL: "https://example.com"})
	assert.Equal(t, DefaultTimeout, timeout)
	assert.Equal(t, DefaultRetries, retries)

	// batch defaults apply when the target is silent
	rc.Defaults.Timeout = 3 * time.Second
	rc.Defaults.Retries = intp(4)
	timeout, retries = rc.effective(Target{URL: "https://example.com"})
	assert.Equal(t, 3*time.Second, timeout)
	assert.Equal(t, 4, retries)

	// target overrides beat batch defaults, including an explicit zero
	timeout, retries = rc.effective(Target{
		URL:     "https://example.com",
		Timeout: time.Second,
		Retries: intp(0),
	})
	assert.Equal(t, time.Second, timeout)
	assert.Equal(t, 0, retries)
}
