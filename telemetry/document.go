// Package telemetry ships per-operation benchmark measurements to a metrics backend without blocking the measurement
// hot path.
package telemetry

import (
	jsoniter "github.com/json-iterator/go"
)

// json is a drop-in replacement for 'encoding/json' used for document marshalling on the hot path.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the metrics document recorded for a single storage operation; one document is emitted per completed (or
// failed) operation.
//
// NOTE: The field names are the wire format expected by the dashboards indexing 's3-perf-index', don't rename them.
type Document struct {
	// Latency is the observed duration of the operation in milliseconds, including the full body transfer.
	Latency float64 `json:"latency"`

	// LatencyExceeded indicates the operation took longer than the configured latency threshold; always false when no
	// threshold is configured.
	LatencyExceeded bool `json:"latency_exceeded"`

	// Timestamp is the wall-clock time the document was created, in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Workload is the workload which produced this document, either "write" or "read".
	Workload string `json:"workload"`

	// Size is the human readable object size label the run was configured with e.g. "10MB".
	Size string `json:"size"`

	// SizeInBytes is the number of bytes transferred by the operation.
	SizeInBytes int64 `json:"size_in_bytes"`

	// Throughput is the derived throughput of the operation in MB/s.
	Throughput float64 `json:"throughput"`

	// ObjectName is the key of the object operated on.
	ObjectName string `json:"object_name"`

	// Source identifies the run which produced this document; hostname plus a per-run UUID.
	Source string `json:"source"`

	// Failed indicates the operation returned an error; the latency then covers the elapsed time until failure.
	Failed bool `json:"failed"`
}

// Encode returns the JSON encoding of the document.
func (d Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}
