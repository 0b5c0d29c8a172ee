package bench

import (
	"time"
)

// Clock separates the monotonic instants used to measure durations from the wall-clock timestamps recorded in metrics
// documents; wall-clock adjustments must never corrupt latency numbers, and monotonic readings are meaningless as
// document timestamps.
type Clock interface {
	// Now returns an instant carrying a monotonic reading, used only for measuring durations.
	Now() time.Time

	// EpochMillis returns the current wall-clock time in epoch milliseconds, used only for document timestamps.
	EpochMillis() int64
}

// SystemClock implements the 'Clock' interface using the system clock.
type SystemClock struct{}

var _ Clock = (*SystemClock)(nil)

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) EpochMillis() int64 {
	return time.Now().UnixMilli()
}
