package probe

import "time"

// Status tags the terminal outcome of one target in a run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFail    Status = "fail"
	StatusSkipped Status = "skipped"
)

// Built-in fallbacks when neither the target nor the batch defaults specify
// a value. Retries means additional attempts after the first.
const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 1
)

// Target is one monitored endpoint with its own acceptance policy.
// Immutable for the duration of a run.
type Target struct {
	URL            string
	ExpectedStatus *int          // exact status required when set; ok ranges are ignored
	Keyword        string        // case-insensitive substring required in the body prefix
	Disabled       bool          // skip without any network activity
	Timeout        time.Duration // 0 means use the batch default
	Retries        *int          // nil means use the batch default
}

// Defaults are the batch-wide fallbacks for targets that don't override them.
type Defaults struct {
	Timeout time.Duration
	Retries *int
	Ranges  []StatusRange
}

// Result is the single terminal outcome recorded per target per run.
type Result struct {
	URL        string `json:"url"`
	Status     Status `json:"status"`
	HTTPStatus int    `json:"http_status,omitempty"` // set when Status is ok
	Error      string `json:"error,omitempty"`       // last attempt's failure cause when Status is fail
	Reason     string `json:"reason,omitempty"`      // set when Status is skipped
}
