package session

import (
	"context"
	"time"
)

// Clock abstracts the reconnect backoff wait so tests can run the state
// machine without real timers.
type Clock interface {
	// Sleep blocks for d or until ctx is cancelled. Returns false when
	// cancelled first.
	Sleep(ctx context.Context, d time.Duration) bool
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
