package telemetry

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testIndexer implements 'Indexer' collecting documents in memory, optionally failing the first 'failures' calls.
type testIndexer struct {
	lock     sync.Mutex
	docs     []Document
	failures int
	attempts int
}

func (ti *testIndexer) Index(_ context.Context, doc Document) error {
	ti.lock.Lock()
	defer ti.lock.Unlock()

	ti.attempts++

	if ti.failures > 0 {
		ti.failures--
		return assert.AnError
	}

	ti.docs = append(ti.docs, doc)

	return nil
}

func (ti *testIndexer) documents() []Document {
	ti.lock.Lock()
	defer ti.lock.Unlock()

	return slices.Clone(ti.docs)
}

type testPinger struct {
	testIndexer
	err error
}

func (tp *testPinger) Ping(context.Context) error {
	return tp.err
}

func newTestSink(indexer Indexer) *Sink {
	return NewSink(SinkOptions{
		Indexer: indexer,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestSinkReport(t *testing.T) {
	indexer := &testIndexer{}

	sink := newTestSink(indexer)
	sink.Report(Document{ObjectName: "key"})
	sink.Close()

	docs := indexer.documents()
	require.Len(t, docs, 1)
	require.Equal(t, "key", docs[0].ObjectName)
	require.Zero(t, sink.Dropped())
}

func TestSinkRetriesTransientFailures(t *testing.T) {
	indexer := &testIndexer{failures: 2}

	sink := newTestSink(indexer)
	sink.Report(Document{ObjectName: "key"})
	sink.Close()

	// Two transient failures sit within the attempt ceiling; the document must arrive exactly once
	require.Len(t, indexer.documents(), 1)
	require.Equal(t, 3, indexer.attempts)
	require.Zero(t, sink.Dropped())
}

func TestSinkDropsAfterExhaustingRetries(t *testing.T) {
	indexer := &testIndexer{failures: 1 << 30}

	sink := NewSink(SinkOptions{
		Indexer:     indexer,
		MaxAttempts: 2,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	sink.Report(Document{ObjectName: "key"})
	sink.Close()

	require.Empty(t, indexer.documents())
	require.Equal(t, uint64(1), sink.Dropped())
}

func TestSinkReportManyDispatchers(t *testing.T) {
	indexer := &testIndexer{}

	sink := NewSink(SinkOptions{
		Indexer:     indexer,
		Dispatchers: 4,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	for i := 0; i < 64; i++ {
		sink.Report(Document{ObjectName: "key"})
	}

	sink.Close()

	require.Len(t, indexer.documents(), 64)
	require.Zero(t, sink.Dropped())
}

func TestSinkPing(t *testing.T) {
	// Indexers without a reachability check pass vacuously
	require.NoError(t, newTestSink(&testIndexer{}).Ping(context.Background()))

	require.NoError(t, newTestSink(&testPinger{}).Ping(context.Background()))
	require.ErrorIs(t, newTestSink(&testPinger{err: assert.AnError}).Ping(context.Background()), assert.AnError)
}
