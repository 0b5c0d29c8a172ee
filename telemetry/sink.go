package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bcncpp/s3newbench/hofp"
	"github.com/bcncpp/s3newbench/retry"
)

const (
	// MaxBufferedPerDispatcher is the default (and minimum) number of documents that can be buffered per-goroutine
	// before 'Report' blocks; this bounds how far emission may fall behind the benchmark.
	MaxBufferedPerDispatcher = 8

	// DefaultMaxAttempts is the default number of times a document emission is attempted before being dropped.
	DefaultMaxAttempts = 3

	// DefaultEmissionTimeout is the default bound on the total time spent emitting a single document, including
	// retries.
	DefaultEmissionTimeout = 30 * time.Second
)

// SinkOptions encapsulates the options available when creating a new sink.
type SinkOptions struct {
	// Indexer is the metrics backend documents are shipped to.
	//
	// NOTE: Required
	Indexer Indexer

	// Dispatchers is the number of goroutines created for shipping documents. Defaults to one.
	Dispatchers int

	// MaxBufferedPerDispatcher dictates the number of documents that can be buffered per-goroutine.
	MaxBufferedPerDispatcher int

	// MaxAttempts is the number of times emission of a single document is attempted before it's dropped.
	MaxAttempts int

	// EmissionTimeout bounds the total time spent emitting a single document, including retries.
	EmissionTimeout time.Duration

	// Logger is the logger used to report retries/drops. Defaults to the global logger.
	Logger *slog.Logger
}

// defaults fills any missing attributes to a sane default.
func (s *SinkOptions) defaults() {
	s.Dispatchers = max(1, s.Dispatchers)
	s.MaxBufferedPerDispatcher = max(MaxBufferedPerDispatcher, s.MaxBufferedPerDispatcher)

	if s.MaxAttempts == 0 {
		s.MaxAttempts = DefaultMaxAttempts
	}

	if s.EmissionTimeout == 0 {
		s.EmissionTimeout = DefaultEmissionTimeout
	}

	if s.Logger == nil {
		s.Logger = slog.Default()
	}
}

// Sink ships metrics documents to the configured backend asynchronously, retrying transient failures with back-off up
// to a fixed attempt ceiling after which the document is dropped and counted.
type Sink struct {
	opts SinkOptions

	pool    *hofp.Pool
	retryer retry.Retryer[any]
	dropped atomic.Uint64
}

// NewSink creates a new sink using the given options.
func NewSink(options SinkOptions) *Sink {
	// Fill out any missing fields with the sane defaults
	options.defaults()

	pool := hofp.NewPool(hofp.Options{
		Size:             options.Dispatchers,
		BufferMultiplier: options.MaxBufferedPerDispatcher,
		LogPrefix:        "(telemetry)",
		Logger:           options.Logger,
	})

	retryer := retry.NewRetryer[any](retry.RetryerOptions[any]{
		Algorithm:  retry.AlgorithmExponential,
		MaxRetries: options.MaxAttempts,
		MinDelay:   100 * time.Millisecond,
	})

	return &Sink{opts: options, pool: pool, retryer: retryer}
}

// Ping verifies the metrics backend is reachable, where the backend supports doing so.
func (s *Sink) Ping(ctx context.Context) error {
	pinger, ok := s.opts.Indexer.(Pinger)
	if !ok {
		return nil
	}

	return pinger.Ping(ctx)
}

// Report the given document asynchronously; blocks only when the emission buffer is full. Documents which cannot be
// shipped within the retry ceiling are dropped and counted, never silently lost.
func (s *Sink) Report(doc Document) {
	err := s.pool.Queue(func(ctx context.Context) error {
		s.emit(ctx, doc)
		return nil
	})
	if err == nil {
		return
	}

	// The pool is tearing down, the document will never be shipped
	s.drop(doc, err)
}

// emit ships a single document synchronously, retrying with back-off.
func (s *Sink) emit(ctx context.Context, doc Document) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.EmissionTimeout)
	defer cancel()

	_, err := s.retryer.DoWithContext(ctx, func(ctx *retry.Context) (any, error) {
		return nil, s.opts.Indexer.Index(ctx, doc)
	})
	if err == nil {
		return
	}

	s.drop(doc, err)
}

// drop counts a document which could not be shipped.
func (s *Sink) drop(doc Document, err error) {
	s.dropped.Add(1)
	s.opts.Logger.Error("(telemetry) dropped document", "object_name", doc.ObjectName, "error", err)
}

// Dropped returns the number of documents which were dropped after exhausting emission retries.
func (s *Sink) Dropped() uint64 {
	return s.dropped.Load()
}

// Close gracefully stops the sink, shipping any buffered documents first.
//
// NOTE: A sink being used after closure has undefined behavior.
func (s *Sink) Close() {
	s.pool.Stop() //nolint:errcheck
}
