package probe

import (
	"strconv"
	"strings"
)

// StatusRange is an inclusive [Low, High] HTTP status interval.
type StatusRange struct {
	Low  int
	High int
}

// DefaultRanges is the built-in acceptance set used when no valid range is
// configured: any 2xx or 3xx status.
func DefaultRanges() []StatusRange {
	return []StatusRange{{Low: 200, High: 299}, {Low: 300, High: 399}}
}

// ParseStatusRanges parses "low-high" strings into ranges. Entries that don't
// parse as two integers are silently discarded; bounds are normalized so
// Low <= High. An empty result falls back to DefaultRanges.
func ParseStatusRanges(raw []string) []StatusRange {
	out := make([]StatusRange, 0, len(raw))
	for _, r := range raw {
		parts := strings.SplitN(r, "-", 2)
		if len(parts) != 2 {
			continue
		}
		lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		out = append(out, StatusRange{Low: lo, High: hi})
	}
	if len(out) == 0 {
		return DefaultRanges()
	}
	return out
}

// IsStatusOK reports whether an observed status satisfies the acceptance rule.
// An exact expected status requires equality and ignores the ranges entirely;
// otherwise the status must fall inside at least one range.
func IsStatusOK(status int, expected *int, ranges []StatusRange) bool {
	if expected != nil {
		return status == *expected
	}
	for _, r := range ranges {
		if status >= r.Low && status <= r.High {
			return true
		}
	}
	return false
}

// KeywordOK reports whether the body prefix contains the keyword,
// case-insensitively. An empty keyword always passes.
func KeywordOK(keyword, body string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(body), strings.ToLower(keyword))
}
