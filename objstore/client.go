// Package objstore exposes a unified 'Client' interface for accessing/managing objects stored in an S3 compatible
// object store, narrowed to the operations the benchmark drives.
package objstore

import (
	"context"
	"io"
	"time"
)

// GetObjectOptions encapsulates the options available when using the 'GetObject' function.
type GetObjectOptions struct {
	// Bucket is the bucket being operated on.
	Bucket string

	// Key is the key (path) of the object being operated on.
	Key string
}

// PutObjectOptions encapsulates the options available when using the 'PutObject' function.
type PutObjectOptions struct {
	// Bucket is the bucket being operated on.
	Bucket string

	// Key is the key (path) of the object being operated on.
	Key string

	// Body is the data that will be uploaded.
	//
	// NOTE: Required to be a 'ReadSeeker' to support checksum calculation/validation.
	Body io.ReadSeeker
}

// DeleteObjectOptions encapsulates the options available when using the 'DeleteObject' function.
type DeleteObjectOptions struct {
	// Bucket is the bucket being operated on.
	Bucket string

	// Key is the key (path) of the object being operated on.
	Key string
}

// ListObjectsOptions encapsulates the options available when using the 'ListObjects' function.
type ListObjectsOptions struct {
	// Bucket is the bucket being operated on.
	Bucket string

	// Prefix limits listing to keys beginning with the given prefix.
	Prefix string

	// PageSize is the maximum number of keys returned per page, the backend may return fewer. Defaults to the backend
	// maximum.
	PageSize int32

	// ContinuationToken resumes listing from a previous page; <nil> starts from the beginning.
	ContinuationToken *string
}

// ObjectAttrs represents the attributes usually attached to an object in the cloud.
type ObjectAttrs struct {
	// Key is the identifier for the object; a unique path.
	Key string

	// Size is the size or content length of the object in bytes.
	//
	// NOTE: May be conditionally populated, for example when a chunked response is returned, this attribute will be
	// <nil>.
	Size *int64

	// LastModified is the time the object was last updated (or created).
	LastModified *time.Time
}

// Object represents an object stored in the cloud, simply the attributes and it's body.
type Object struct {
	ObjectAttrs

	// This body will generally be a HTTP response body; it should be read once, and closed to avoid resource leaks.
	Body io.ReadCloser
}

// ObjectPage is a single page of a paginated listing.
type ObjectPage struct {
	// Objects are the attributes of the objects in this page, in the order the backend returned them.
	Objects []ObjectAttrs

	// NextContinuationToken resumes listing at the following page, <nil> once the listing is exhausted.
	NextContinuationToken *string
}

// Client is a unified interface for accessing/managing objects stored in an S3 compatible object store.
type Client interface {
	// BucketExists returns a boolean indicating whether the given bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// CreateBucket creates a new bucket with the given name.
	CreateBucket(ctx context.Context, bucket string) error

	// GetObject retrieves an object from the store.
	//
	// NOTE: The returned objects body must be closed to avoid resource leaks.
	GetObject(ctx context.Context, opts GetObjectOptions) (*Object, error)

	// PutObject creates an object in the store with the given key/options.
	PutObject(ctx context.Context, opts PutObjectOptions) error

	// DeleteObject deletes the object with the given key, ignoring the case where the key is not found.
	DeleteObject(ctx context.Context, opts DeleteObjectOptions) error

	// ListObjects returns a single page of the objects under the given prefix; paginate by passing the returned
	// continuation token back in.
	ListObjects(ctx context.Context, opts ListObjectsOptions) (*ObjectPage, error)

	// Close the underlying client/SDK where applicable; use of the client after a call to Close has undefined
	// behavior.
	Close() error
}
