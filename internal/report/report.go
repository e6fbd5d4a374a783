// Package report renders a finished run for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akkishost/sitecheck/internal/probe"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// Report is the machine-readable record of one run.
type Report struct {
	RunID     string         `json:"run_id"`
	Timestamp string         `json:"timestamp"`
	Summary   probe.Summary  `json:"summary"`
	Results   []probe.Result `json:"results"`
}

// New builds a report for a completed run.
func New(runID string, when time.Time, results []probe.Result, summary probe.Summary) *Report {
	return &Report{
		RunID:     runID,
		Timestamp: when.Format(timeLayout),
		Summary:   summary,
		Results:   results,
	}
}

// Write stores the report as indented JSON at path.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Render produces the human-readable run summary: a header, one line per
// target in input order, and a counts line.
func Render(results []probe.Result, summary probe.Summary, when time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 sitecheck — %s\n", when.Format(timeLayout))
	for _, r := range results {
		switch r.Status {
		case probe.StatusOK:
			fmt.Fprintf(&b, "✅ %s\n", r.URL)
		case probe.StatusSkipped:
			fmt.Fprintf(&b, "⏭️  %s (skipped)\n", r.URL)
		default:
			cause := r.Error
			if cause == "" {
				cause = "unknown error"
			}
			fmt.Fprintf(&b, "❌ %s — %s\n", r.URL, cause)
		}
	}
	fmt.Fprintf(&b, "OK:%d | FAIL:%d | SKIP:%d | Total:%d",
		summary.OK, summary.Fail, summary.Skip, summary.Total)
	return b.String()
}
