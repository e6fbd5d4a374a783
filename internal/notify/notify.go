package notify

import "context"

// Notifier forwards a run summary to an outbound alert channel. Implementations
// decide the protocol; callers treat sends as best effort.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
