package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// The Range header asks servers for only the first KiB. It's a hint to cut
	// transfer size, not a contract; servers may ignore it.
	rangeHeader = "bytes=0-1024"

	// bodyLimit caps how much of the response body is read for keyword matching.
	bodyLimit = 4096
)

// connection pooling limits so a large batch doesn't exhaust sockets
const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
	idleConnTimeout     = 60 * time.Second
)

// Outcome is what a single attempt produced: either an HTTP status plus a body
// prefix, or a failure cause. It is not retained past the retry loop.
type Outcome struct {
	StatusCode int    // 0 when no response was received
	Body       string // at most bodyLimit bytes, lossily decoded
	Err        string // non-empty on network failure, timeout, or read error
}

// Prober performs one HTTP attempt against one URL.
type Prober interface {
	Attempt(ctx context.Context, url string, timeout time.Duration) Outcome
}

// HTTPProber issues GET requests through a shared pooled client. Safe for
// concurrent use across a whole batch; timeouts are applied per attempt via
// context, and redirects are followed.
type HTTPProber struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPProber(userAgent string) *HTTPProber {
	return &HTTPProber{
		Client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				IdleConnTimeout:     idleConnTimeout,
			},
		},
		UserAgent: userAgent,
	}
}

// Attempt performs exactly one request. Every failure comes back as an Outcome
// value; it never panics and never surfaces an error to the caller. Malformed
// byte sequences in the body are dropped rather than failing the attempt.
func (p *HTTPProber) Attempt(ctx context.Context, url string, timeout time.Duration) Outcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{Err: err.Error()}
	}
	req.Header.Set("Range", rangeHeader)
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return Outcome{Err: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return Outcome{StatusCode: resp.StatusCode, Err: err.Error()}
	}

	return Outcome{
		StatusCode: resp.StatusCode,
		Body:       strings.ToValidUTF8(string(body), ""),
	}
}

// Close releases idle pooled connections.
func (p *HTTPProber) Close() {
	if t, ok := p.Client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}
