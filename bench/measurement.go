package bench

import (
	"time"

	"github.com/bcncpp/s3newbench/telemetry"
)

// minDurationMS is the clamp applied to measured durations, guarding the throughput derivation against division by
// zero; a measurement this fast is almost certainly a timing artifact and is flagged as suspicious.
const minDurationMS = 1e-6

// Measurement is the latency/throughput/threshold outcome of a single storage operation. Immutable once computed,
// it's never mutated downstream.
type Measurement struct {
	// Key is the object key which was operated on.
	Key string

	// DurationMS is the observed duration in milliseconds, with sub-millisecond precision retained.
	DurationMS float64

	// SizeBytes is the number of payload bytes transferred; zero for failed operations.
	SizeBytes int64

	// ThroughputMBps is the derived throughput of the operation in MB/s.
	ThroughputMBps float64

	// Exceeded indicates the operation took longer than the configured latency threshold; always false when no
	// threshold is configured.
	Exceeded bool

	// Failed indicates the storage call returned an error, the duration then covers the elapsed time until failure.
	Failed bool

	clamped bool
}

// Throughput converts a duration in milliseconds and a transfer size in bytes into MB/s.
func Throughput(durationMS float64, sizeBytes int64) float64 {
	return (1000 / durationMS) * float64(sizeBytes) / 1_000_000
}

// NewMeasurement derives the per-operation metrics from a raw duration; a threshold of zero disables the latency
// check.
func NewMeasurement(key string, duration time.Duration, sizeBytes int64, maxLatencyMS float64, failed bool) Measurement {
	durationMS := duration.Seconds() * 1000

	var clamped bool
	if durationMS <= 0 {
		durationMS, clamped = minDurationMS, true
	}

	measurement := Measurement{
		Key:            key,
		DurationMS:     durationMS,
		SizeBytes:      sizeBytes,
		ThroughputMBps: Throughput(durationMS, sizeBytes),
		Exceeded:       maxLatencyMS > 0 && durationMS > maxLatencyMS,
		Failed:         failed,
		clamped:        clamped,
	}

	return measurement
}

// Suspicious returns a boolean indicating whether the duration was clamped; such samples should be logged, they're
// not distinguishable in the metrics schema.
func (m Measurement) Suspicious() bool {
	return m.clamped
}

// Document converts the measurement into the telemetry document emitted for it.
func (m Measurement) Document(workload Mode, sizeLabel, source string, timestampMillis int64) telemetry.Document {
	return telemetry.Document{
		Latency:         m.DurationMS,
		LatencyExceeded: m.Exceeded,
		Timestamp:       timestampMillis,
		Workload:        string(workload),
		Size:            sizeLabel,
		SizeInBytes:     m.SizeBytes,
		Throughput:      m.ThroughputMBps,
		ObjectName:      m.Key,
		Source:          source,
		Failed:          m.Failed,
	}
}
