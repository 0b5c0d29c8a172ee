package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThroughput(t *testing.T) {
	type test struct {
		name       string
		durationMS float64
		sizeBytes  int64
		expected   float64
	}

	tests := []*test{
		{name: "OneSecondOneMB", durationMS: 1000, sizeBytes: 1_000_000, expected: 1},
		{name: "HalfSecondOneMB", durationMS: 500, sizeBytes: 1_000_000, expected: 2},
		{name: "OneMillisecond", durationMS: 1, sizeBytes: 1_000_000, expected: 1000},
		{name: "ZeroBytes", durationMS: 250, sizeBytes: 0, expected: 0},
		{name: "SubMillisecond", durationMS: 0.5, sizeBytes: 500_000, expected: 1000},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Throughput(test.durationMS, test.sizeBytes))
		})
	}
}

func TestNewMeasurement(t *testing.T) {
	measurement := NewMeasurement("key", 250*time.Millisecond, 1_000_000, 0, false)

	require.Equal(t, "key", measurement.Key)
	require.Equal(t, 250.0, measurement.DurationMS)
	require.Equal(t, int64(1_000_000), measurement.SizeBytes)
	require.Equal(t, 4.0, measurement.ThroughputMBps)
	require.False(t, measurement.Exceeded)
	require.False(t, measurement.Failed)
	require.False(t, measurement.Suspicious())
}

func TestNewMeasurementSubMillisecondPrecision(t *testing.T) {
	measurement := NewMeasurement("key", 1500*time.Microsecond, 0, 0, false)
	require.Equal(t, 1.5, measurement.DurationMS)
}

func TestNewMeasurementZeroDurationClamped(t *testing.T) {
	measurement := NewMeasurement("key", 0, 1_000_000, 0, false)

	require.Equal(t, minDurationMS, measurement.DurationMS)
	require.True(t, measurement.Suspicious())

	// Clamping means the throughput derivation must not divide by zero
	require.False(t, measurement.ThroughputMBps != measurement.ThroughputMBps) // NaN check
}

func TestNewMeasurementThreshold(t *testing.T) {
	type test struct {
		name         string
		duration     time.Duration
		maxLatencyMS float64
		expected     bool
	}

	tests := []*test{
		{name: "NoThresholdNeverExceeded", duration: time.Hour, maxLatencyMS: 0, expected: false},
		{name: "UnderThreshold", duration: 100 * time.Millisecond, maxLatencyMS: 250, expected: false},
		{name: "EqualNotExceeded", duration: 250 * time.Millisecond, maxLatencyMS: 250, expected: false},
		{name: "OverThreshold", duration: 500 * time.Millisecond, maxLatencyMS: 250, expected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			measurement := NewMeasurement("key", test.duration, 0, test.maxLatencyMS, false)
			require.Equal(t, test.expected, measurement.Exceeded)
		})
	}
}

func TestMeasurementDocument(t *testing.T) {
	measurement := NewMeasurement("prefix/key", 250*time.Millisecond, 1_000_000, 200, true)

	document := measurement.Document(ModeWrite, "1MB", "source", 1234)

	require.Equal(t, 250.0, document.Latency)
	require.True(t, document.LatencyExceeded)
	require.Equal(t, int64(1234), document.Timestamp)
	require.Equal(t, "write", document.Workload)
	require.Equal(t, "1MB", document.Size)
	require.Equal(t, int64(1_000_000), document.SizeInBytes)
	require.Equal(t, 4.0, document.Throughput)
	require.Equal(t, "prefix/key", document.ObjectName)
	require.Equal(t, "source", document.Source)
	require.True(t, document.Failed)
}
