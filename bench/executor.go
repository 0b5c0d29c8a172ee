// Package bench implements the benchmark execution and measurement engine; workload scheduling, unbiased read
// sampling, per-operation timing/derived metrics, telemetry emission and the cleanup of everything a run wrote.
package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bcncpp/s3newbench/hofp"
	"github.com/bcncpp/s3newbench/objstore"
	"github.com/bcncpp/s3newbench/telemetry"
)

// taskSource yields the key for the next operation; ok is false once the workload is exhausted.
type taskSource func(ctx context.Context) (key string, ok bool, err error)

// operation performs a single storage call for the given key, returning the number of payload bytes transferred.
type operation func(ctx context.Context, key string) (int64, error)

// ExecutorOptions encapsulates the options available when creating a new workload executor.
type ExecutorOptions struct {
	// Client is the storage backend the workload is run against.
	//
	// NOTE: Required
	Client objstore.Client

	// Sink is the telemetry sink measurements are emitted to; ownership passes to the executor, which closes it
	// during run teardown so the final drop count covers all buffered documents.
	//
	// NOTE: Required
	Sink *telemetry.Sink

	// Spec describes the workload to run.
	Spec WorkloadSpec

	// Clock is the time source for measurements/timestamps. Defaults to the system clock.
	Clock Clock

	// Source identifies this run in emitted documents. Defaults to the hostname plus a per-run UUID.
	Source string

	// Logger is the logger used throughout the run. Defaults to the global logger.
	Logger *slog.Logger
}

// defaults fills any missing attributes to a sane default.
func (e *ExecutorOptions) defaults() {
	if e.Clock == nil {
		e.Clock = SystemClock{}
	}

	if e.Source == "" {
		hostname, _ := os.Hostname()
		e.Source = hostname + uuid.NewString()
	}

	if e.Logger == nil {
		e.Logger = slog.Default()
	}
}

// WorkloadExecutor drives a single benchmark run; it provisions the bucket, dispatches the workload across a bounded
// worker pool, feeds each measurement into the telemetry sink and finally removes everything the run created.
type WorkloadExecutor struct {
	opts ExecutorOptions
	spec WorkloadSpec

	state  atomic.Int32
	ledger *CleanupLedger

	attempted atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64

	emptyWorkload atomic.Bool
}

// NewWorkloadExecutor returns a new executor for the given workload, validating the spec up-front.
func NewWorkloadExecutor(options ExecutorOptions) (*WorkloadExecutor, error) {
	options.Spec.defaults()

	if err := options.Spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload: %w", err)
	}

	// Fill out any missing fields with the sane defaults
	options.defaults()

	executor := WorkloadExecutor{
		opts:   options,
		spec:   options.Spec,
		ledger: NewCleanupLedger(),
	}

	return &executor, nil
}

// State returns the current lifecycle phase of the executor.
func (e *WorkloadExecutor) State() State {
	return State(e.state.Load())
}

// setState transitions the executor; 'StateFailed' is absorbing, no transition leaves it.
func (e *WorkloadExecutor) setState(state State) {
	for {
		current := e.state.Load()
		if State(current) == StateFailed {
			return
		}

		if e.state.CompareAndSwap(current, int32(state)) {
			return
		}
	}
}

// fail transitions the executor into the absorbing failed state.
func (e *WorkloadExecutor) fail() {
	e.state.Store(int32(StateFailed))
}

// Run executes the configured workload to completion, returning the aggregate summary. The returned error is non-nil
// only for fatal conditions; per-operation failures, dropped telemetry and failed cleanups degrade to counters in the
// summary.
func (e *WorkloadExecutor) Run(ctx context.Context) (*RunSummary, error) {
	fatal := e.execute(ctx)
	if fatal != nil {
		e.fail()
	}

	// Ship any buffered documents before reading the final drop count
	e.opts.Sink.Close()

	summary := &RunSummary{
		Attempted:        e.attempted.Load(),
		Succeeded:        e.succeeded.Load(),
		Failed:           e.failed.Load(),
		TelemetryDropped: e.opts.Sink.Dropped(),
		EmptyWorkload:    e.emptyWorkload.Load(),
	}

	// Cleanup runs even after a fatal error; keys already written must not be leaked. The parent context may already
	// be cancelled, which must not stop deletes.
	if e.spec.Cleanup {
		e.setState(StateCleaningUp)
		summary.CleanupAttempted, summary.CleanupFailed = e.cleanup(context.WithoutCancel(ctx))
	}

	if fatal == nil {
		e.setState(StateDone)
	}

	summary.State = e.State()

	return summary, fatal
}

// execute provisions the bucket then runs the workload, returning an error only for fatal conditions.
func (e *WorkloadExecutor) execute(ctx context.Context) error {
	e.setState(StateProvisioning)

	if err := e.provision(ctx); err != nil {
		return err
	}

	e.setState(StateRunning)

	switch e.spec.Mode {
	case ModeWrite:
		return e.runWrite(ctx)
	case ModeRead:
		return e.runRead(ctx)
	}

	return fmt.Errorf("invalid workload %q", e.spec.Mode)
}

// provision verifies the metrics backend is reachable, and that the bucket exists, creating it for write workloads. A
// failed existence check is treated as absence and is non-fatal; a failed creation is fatal.
func (e *WorkloadExecutor) provision(ctx context.Context) error {
	if err := e.opts.Sink.Ping(ctx); err != nil {
		return fmt.Errorf("metrics backend unreachable: %w", err)
	}

	exists, err := e.opts.Client.BucketExists(ctx, e.spec.Bucket)
	if err != nil {
		e.opts.Logger.Warn("bucket existence check failed, treating the bucket as absent",
			"bucket", e.spec.Bucket, "error", err)

		exists = false
	}

	if exists || e.spec.Mode != ModeWrite {
		return nil
	}

	if err := e.opts.Client.CreateBucket(ctx, e.spec.Bucket); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", e.spec.Bucket, err)
	}

	return nil
}

// runWrite uploads 'ObjectCount' generated objects, partitioning work via a shared atomic counter so slow workers
// don't stall others.
func (e *WorkloadExecutor) runWrite(ctx context.Context) error {
	var (
		// The payload is a fixed-byte-value buffer; content is irrelevant to the benchmark, only size matters. It's
		// shared read-only across workers.
		payload = bytes.Repeat([]byte{'a'}, int(e.spec.Size.Bytes))
		namer   = NewObjectNamer(e.spec.Prefix)
		next    atomic.Int64
	)

	source := func(_ context.Context) (string, bool, error) {
		if next.Add(1) > int64(e.spec.ObjectCount) {
			return "", false, nil
		}

		return namer.Next(), true, nil
	}

	op := func(ctx context.Context, key string) (int64, error) {
		err := e.opts.Client.PutObject(ctx, objstore.PutObjectOptions{
			Bucket: e.spec.Bucket,
			Key:    key,
			Body:   bytes.NewReader(payload),
		})
		if err != nil {
			return 0, err
		}

		e.ledger.Append(key)

		return e.spec.Size.Bytes, nil
	}

	return e.fanOut(ctx, source, op)
}

// runRead downloads 'ObjectCount' objects sampled from the configured prefix; bodies are fully drained so measured
// latency reflects the whole transfer, not just the header exchange.
func (e *WorkloadExecutor) runRead(ctx context.Context) error {
	sampler := NewReadSampler(ReadSamplerOptions{
		Client: e.opts.Client,
		Bucket: e.spec.Bucket,
		Prefix: e.spec.Prefix,
		Logger: e.opts.Logger,
	})

	var next atomic.Int64

	source := func(ctx context.Context) (string, bool, error) {
		if next.Add(1) > int64(e.spec.ObjectCount) {
			return "", false, nil
		}

		key, err := sampler.Next(ctx)
		if errors.Is(err, ErrNoObjects) {
			e.emptyWorkload.Store(true)
			e.opts.Logger.Warn("prefix contains no objects, nothing to read",
				"bucket", e.spec.Bucket, "prefix", e.spec.Prefix)

			return "", false, nil
		}

		// A listing failure leaves the run without a task source, which is fatal
		if err != nil {
			return "", false, err
		}

		return key, true, nil
	}

	op := func(ctx context.Context, key string) (int64, error) {
		object, err := e.opts.Client.GetObject(ctx, objstore.GetObjectOptions{Bucket: e.spec.Bucket, Key: key})
		if err != nil {
			return 0, err
		}
		defer object.Body.Close()

		return io.Copy(io.Discard, object.Body)
	}

	return e.fanOut(ctx, source, op)
}

// fanOut runs 'Concurrency' workers over the shared task source, then drains them.
func (e *WorkloadExecutor) fanOut(ctx context.Context, source taskSource, op operation) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var limiter *rate.Limiter
	if e.spec.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(e.spec.RateLimit), 1)
	}

	pool := hofp.NewPool(hofp.Options{
		Context:   runCtx,
		Size:      e.spec.Concurrency,
		LogPrefix: "(executor)",
		Logger:    e.opts.Logger,
	})

	// Closed by the first worker to find the task source spent; the run stays in 'StateRunning' and the drain grace
	// clock must not start until then.
	var (
		exhausted = make(chan struct{})
		spent     sync.Once
	)

	worker := func(ctx context.Context) error {
		// Cancellation is cooperative, observed at the top of each iteration; in-flight calls are allowed to finish
		// so server-side writes aren't orphaned without a ledger entry.
		for ctx.Err() == nil {
			key, ok, err := source(ctx)
			if err != nil {
				// Errors which only reflect cancellation aren't fatal, the run is already winding down
				if ctx.Err() != nil {
					return nil
				}

				return err
			}

			if !ok {
				spent.Do(func() { close(exhausted) })
				return nil
			}

			if limiter != nil && limiter.Wait(ctx) != nil {
				return nil
			}

			e.perform(ctx, key, op)
		}

		return nil
	}

	for w := 0; w < e.spec.Concurrency; w++ {
		if pool.Queue(worker) != nil {
			break
		}
	}

	return e.drain(pool, exhausted, cancel)
}

// perform executes and measures a single operation; a storage error is recorded as a failed measurement and does not
// abort the run.
func (e *WorkloadExecutor) perform(ctx context.Context, key string, op operation) {
	opCtx, cancel := context.WithTimeout(ctx, e.spec.OpTimeout)
	defer cancel()

	start := e.opts.Clock.Now()
	transferred, err := op(opCtx, key)
	duration := e.opts.Clock.Now().Sub(start)

	e.attempted.Add(1)

	if err != nil {
		e.failed.Add(1)
		e.opts.Logger.Error("operation failed", "workload", e.spec.Mode, "key", key, "error", err)
	} else {
		e.succeeded.Add(1)
	}

	measurement := NewMeasurement(key, duration, transferred, e.spec.MaxLatencyMS, err != nil)
	if measurement.Suspicious() {
		e.opts.Logger.Warn("operation measured a duration of zero, clamping", "key", key)
	}

	e.opts.Sink.Report(measurement.Document(e.spec.Mode, e.spec.Size.Label, e.opts.Source, e.opts.Clock.EpochMillis()))
}

// drain waits for the workload to run to completion. The grace period bounds only the trailing in-flight operations
// once the task source is exhausted, never the workload itself; a run is free to take arbitrarily long while work
// remains. Operations still running once the grace elapses are abandoned via cancellation.
func (e *WorkloadExecutor) drain(pool *hofp.Pool, exhausted <-chan struct{}, cancel context.CancelFunc) error {
	done := make(chan error, 1)

	go func() { done <- pool.Stop() }()

	// The workload is still producing work until the source is spent; the pool finishing first means the run was
	// either cancelled or hit a fatal error, there is nothing left to wait out either way.
	select {
	case err := <-done:
		e.setState(StateDraining)
		return err
	case <-exhausted:
	}

	e.setState(StateDraining)

	select {
	case err := <-done:
		return err
	case <-time.After(e.spec.DrainGrace):
	}

	e.opts.Logger.Warn("grace period elapsed waiting for in-flight operations, abandoning them",
		"grace", e.spec.DrainGrace)

	// Cancelling unblocks the abandoned calls, the workers then exit promptly; waiting for them means no worker can
	// emit telemetry once the sink begins closing.
	cancel()

	<-done

	return nil
}

// cleanup deletes every key recorded in the ledger; individual delete failures are collected rather than aborting the
// remaining deletes.
func (e *WorkloadExecutor) cleanup(ctx context.Context) (int, int) {
	keys := e.ledger.Drain()
	if len(keys) == 0 {
		return 0, 0
	}

	e.opts.Logger.Info("cleaning up objects written by this run", "count", len(keys))

	var (
		failed atomic.Int64
		pool   = hofp.NewPool(hofp.Options{
			Context:   ctx,
			Size:      min(e.spec.Concurrency, len(keys)),
			LogPrefix: "(cleanup)",
			Logger:    e.opts.Logger,
		})
	)

	for _, key := range keys {
		err := pool.Queue(func(ctx context.Context) error {
			err := e.opts.Client.DeleteObject(ctx, objstore.DeleteObjectOptions{Bucket: e.spec.Bucket, Key: key})
			if err == nil {
				return nil
			}

			failed.Add(1)
			e.opts.Logger.Error("failed to delete object", "key", key, "error", err)

			return nil
		})
		if err != nil {
			break
		}
	}

	pool.Stop() //nolint:errcheck

	return len(keys), int(failed.Load())
}
