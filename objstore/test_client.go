package objstore

import (
	"bytes"
	"context"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// TestBuckets represents a number of buckets, and is only used by the 'TestClient' to store state in memory.
type TestBuckets map[string]TestBucket

// TestBucket represents a bucket and is only used by the 'TestClient' to store objects in memory.
type TestBucket map[string]*TestObject

// TestObject represents an object and is only used by the 'TestClient'.
type TestObject struct {
	ObjectAttrs
	Body []byte
}

// TestClient implementation of the 'Client' interface which stores state in memory, and can be used to avoid having
// to manually mock a client during unit testing.
type TestClient struct {
	t    *testing.T
	lock sync.RWMutex

	// Buckets is the in memory state maintained by the client. Internally, access is guarded by a mutex, however, it's
	// not safe/recommended to access this attribute whilst a test is running; it should only be used to inspect state
	// (to perform assertions) once testing is complete.
	Buckets TestBuckets
}

var _ Client = (*TestClient)(nil)

// NewTestClient returns a new test client, which has no buckets/objects.
func NewTestClient(t *testing.T) *TestClient {
	return &TestClient{
		t:       t,
		Buckets: make(TestBuckets),
	}
}

func (t *TestClient) BucketExists(_ context.Context, bucket string) (bool, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	_, ok := t.Buckets[bucket]

	return ok, nil
}

func (t *TestClient) CreateBucket(_ context.Context, bucket string) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.Buckets[bucket]; !ok {
		t.Buckets[bucket] = make(TestBucket)
	}

	return nil
}

func (t *TestClient) GetObject(_ context.Context, opts GetObjectOptions) (*Object, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	object, err := t.getObjectRLocked(opts.Bucket, opts.Key)
	if err != nil {
		return nil, err
	}

	return &Object{
		ObjectAttrs: object.ObjectAttrs,
		Body:        io.NopCloser(bytes.NewReader(object.Body)),
	}, nil
}

func (t *TestClient) PutObject(_ context.Context, opts PutObjectOptions) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	body, err := io.ReadAll(opts.Body)
	if err != nil {
		return err
	}

	t.getBucketLocked(opts.Bucket)[opts.Key] = &TestObject{
		ObjectAttrs: ObjectAttrs{
			Key:          opts.Key,
			Size:         aws.Int64(int64(len(body))),
			LastModified: aws.Time(time.Now()),
		},
		Body: body,
	}

	return nil
}

func (t *TestClient) DeleteObject(_ context.Context, opts DeleteObjectOptions) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	// Deleting a key which does not exist is a no-op, mirroring the behavior of S3
	delete(t.getBucketLocked(opts.Bucket), opts.Key)

	return nil
}

func (t *TestClient) ListObjects(_ context.Context, opts ListObjectsOptions) (*ObjectPage, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	bucket, ok := t.Buckets[opts.Bucket]
	if !ok {
		return nil, &NotFoundError{Type: "bucket", Name: opts.Bucket}
	}

	var keys []string

	for key := range bucket {
		if strings.HasPrefix(key, opts.Prefix) {
			keys = append(keys, key)
		}
	}

	// Real backends list in lexicographic order, mirror that so sampling tests exercise the reshuffle
	sort.Strings(keys)

	if opts.ContinuationToken != nil {
		idx, _ := slices.BinarySearch(keys, *opts.ContinuationToken)
		keys = keys[idx:]
	}

	size := int(opts.PageSize)
	if size <= 0 {
		size = 1000
	}

	page := &ObjectPage{}

	for i, key := range keys {
		if i >= size {
			page.NextContinuationToken = aws.String(key)
			break
		}

		page.Objects = append(page.Objects, bucket[key].ObjectAttrs)
	}

	return page, nil
}

func (t *TestClient) Close() error {
	return nil
}

// getBucketLocked returns the bucket with the given name, creating it if it does not exist.
func (t *TestClient) getBucketLocked(bucket string) TestBucket {
	if _, ok := t.Buckets[bucket]; !ok {
		t.Buckets[bucket] = make(TestBucket)
	}

	return t.Buckets[bucket]
}

// getObjectRLocked returns the object with the given key, or a 'NotFoundError' if it does not exist.
func (t *TestClient) getObjectRLocked(bucket, key string) (*TestObject, error) {
	object, ok := t.Buckets[bucket][key]
	if !ok {
		return nil, &NotFoundError{Type: "key", Name: key}
	}

	return object, nil
}
