package bench

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the workload executed against the bucket.
type Mode string

const (
	// ModeWrite generates and uploads new objects.
	ModeWrite Mode = "write"

	// ModeRead samples and downloads existing objects.
	ModeRead Mode = "read"
)

// ParseMode parses the given workload string, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case string(ModeWrite):
		return ModeWrite, nil
	case string(ModeRead):
		return ModeRead, nil
	}

	return "", fmt.Errorf("invalid workload %q, expected 'write' or 'read'", s)
}

// WorkloadSpec describes a single benchmark run; validated before execution and read-only thereafter.
type WorkloadSpec struct {
	// Bucket is the bucket the workload is run against.
	Bucket string

	// Prefix is an optional prefix (directory) within the bucket; writes generate keys under it, reads sample from
	// it.
	Prefix string

	// Size is the object size for write workloads, and the size label recorded in metrics documents.
	Size SizeSpec

	// ObjectCount is the number of operations to perform.
	ObjectCount int

	// Mode selects between the write and read workloads.
	Mode Mode

	// MaxLatencyMS is the maximum acceptable per-operation latency in milliseconds; zero disables the threshold, in
	// which case no sample is ever flagged as exceeding it.
	MaxLatencyMS float64

	// Concurrency is the number of workers performing operations. Defaults to one; a sequential run.
	Concurrency int

	// Cleanup requests that every object written by this run is deleted once the run finishes.
	Cleanup bool

	// RateLimit caps the number of operations started per second across all workers; zero means unlimited.
	RateLimit int

	// OpTimeout bounds each individual storage call. Defaults to a minute.
	OpTimeout time.Duration

	// DrainGrace bounds how long the run waits for in-flight operations once the workload is complete or has been
	// cancelled; operations still running afterwards are abandoned. Defaults to thirty seconds.
	DrainGrace time.Duration
}

// defaults fills any missing attributes to a sane default.
func (w *WorkloadSpec) defaults() {
	if w.Concurrency == 0 {
		w.Concurrency = 1
	}

	if w.OpTimeout == 0 {
		w.OpTimeout = time.Minute
	}

	if w.DrainGrace == 0 {
		w.DrainGrace = 30 * time.Second
	}
}

// Validate returns an error if the spec would not describe a runnable workload.
func (w *WorkloadSpec) Validate() error {
	if w.Bucket == "" {
		return fmt.Errorf("a bucket name must be provided")
	}

	if w.Mode != ModeWrite && w.Mode != ModeRead {
		return fmt.Errorf("invalid workload %q, expected 'write' or 'read'", w.Mode)
	}

	if w.Size.Bytes <= 0 {
		return fmt.Errorf("object size must be greater than zero")
	}

	if w.ObjectCount <= 0 {
		return fmt.Errorf("object count must be greater than zero")
	}

	if w.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least one")
	}

	if w.MaxLatencyMS < 0 {
		return fmt.Errorf("max latency must not be negative")
	}

	if w.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	return nil
}
