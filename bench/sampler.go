package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/bcncpp/s3newbench/objstore"
)

// ErrNoObjects is returned by 'Next' when the configured prefix contains no objects at all; a read workload over an
// empty prefix must terminate rather than block or divide by zero.
var ErrNoObjects = errors.New("no objects found under the configured prefix")

// ReadSamplerOptions encapsulates the options available when creating a new read sampler.
type ReadSamplerOptions struct {
	// Client is the storage backend listing is performed against.
	//
	// NOTE: Required
	Client objstore.Client

	// Bucket is the bucket being sampled.
	//
	// NOTE: Required
	Bucket string

	// Prefix limits sampling to keys beginning with the given prefix.
	Prefix string

	// PageSize is the listing page size, the backend default is used when omitted.
	PageSize int32

	// Logger is the logger used to report the fallback to sampling with replacement. Defaults to the global logger.
	Logger *slog.Logger
}

// defaults fills any missing attributes to a sane default.
func (r *ReadSamplerOptions) defaults() {
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
}

// ReadSampler yields object keys for read operations by walking the backend's paginated listing and maintaining a
// shuffled pool of candidates; shuffling after each page refill decorrelates operation order from the backend's
// (usually lexicographic) listing order, which would otherwise bias which key ranges get exercised first.
//
// Keys are yielded without replacement until the listing is exhausted; once every distinct key has been yielded the
// sampler deliberately switches to sampling with replacement from the full observed key set, so a read benchmark over
// a small bucket can still satisfy a large requested read count.
type ReadSampler struct {
	opts ReadSamplerOptions

	lock      sync.Mutex
	pool      []string
	observed  []string
	token     *string
	started   bool
	exhausted bool
	rng       *rand.Rand
}

// NewReadSampler returns a new sampler over the given bucket/prefix; no listing is performed until the first call to
// 'Next'.
func NewReadSampler(options ReadSamplerOptions) *ReadSampler {
	// Fill out any missing fields with the sane defaults
	options.defaults()

	sampler := ReadSampler{
		opts: options,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	return &sampler
}

// Next returns the key of the next object to read. Returns 'ErrNoObjects' if the prefix contains no objects.
func (r *ReadSampler) Next(ctx context.Context) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	// Pull pages until we have a candidate or the listing is exhausted; pages may legitimately be empty
	for len(r.pool) == 0 && !(r.started && r.exhausted) {
		if err := r.refillLocked(ctx); err != nil {
			return "", fmt.Errorf("failed to list objects: %w", err)
		}
	}

	if len(r.pool) > 0 {
		key := r.pool[len(r.pool)-1]
		r.pool = r.pool[:len(r.pool)-1]

		return key, nil
	}

	if len(r.observed) == 0 {
		return "", ErrNoObjects
	}

	return r.observed[r.rng.IntN(len(r.observed))], nil
}

// refillLocked pulls the next listing page into the pool, reshuffling the pool afterwards.
func (r *ReadSampler) refillLocked(ctx context.Context) error {
	page, err := r.opts.Client.ListObjects(ctx, objstore.ListObjectsOptions{
		Bucket:            r.opts.Bucket,
		Prefix:            r.opts.Prefix,
		PageSize:          r.opts.PageSize,
		ContinuationToken: r.token,
	})
	if err != nil {
		return err
	}

	for _, object := range page.Objects {
		r.pool = append(r.pool, object.Key)
		r.observed = append(r.observed, object.Key)
	}

	r.started = true
	r.token = page.NextContinuationToken
	r.exhausted = r.token == nil

	if r.exhausted && len(r.observed) > 0 {
		r.opts.Logger.Debug("listing exhausted, further reads sample with replacement", "distinct", len(r.observed))
	}

	// Fisher-Yates over the whole pool, decorrelating yield order from listing order
	r.rng.Shuffle(len(r.pool), func(i, j int) {
		r.pool[i], r.pool[j] = r.pool[j], r.pool[i]
	})

	return nil
}

// Observed returns the number of distinct keys seen so far.
func (r *ReadSampler) Observed() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.observed)
}
