// Package objaws provides an implementation of 'objstore.Client' for use with AWS S3 and S3 compatible stores.
package objaws

import (
	"log/slog"

	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bcncpp/s3newbench/objstore"
)

// PageSize is the default page size used when listing objects, this is the maximum accepted by 'ListObjectsV2'.
const PageSize = 1000

// Client implements the 'objstore.Client' interface allowing the creation/management of objects stored in AWS S3.
type Client struct {
	serviceAPI serviceAPI
	logger     *slog.Logger
}

var _ objstore.Client = (*Client)(nil)

// ClientOptions encapsulates the options for creating a new AWS Client.
type ClientOptions struct {
	// ServiceAPI is the minimal subset of functions that we use from the AWS SDK.
	//
	// NOTE: Required
	ServiceAPI serviceAPI

	// Logger is the passed logger which implements a custom Log method
	Logger *slog.Logger
}

// defaults fills any missing attributes to a sane default.
func (c *ClientOptions) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// NewClient returns a new client which uses the given 'serviceAPI', in general this should be the one created using
// the 's3.NewFromConfig' function exposed by the SDK.
func NewClient(options ClientOptions) *Client {
	// Fill out any missing fields with the sane defaults
	options.defaults()

	client := Client{
		serviceAPI: options.ServiceAPI,
		logger:     options.Logger,
	}

	return &client
}

func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	input := &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	}

	_, err := c.serviceAPI.HeadBucket(ctx, input)
	if err == nil {
		return true, nil
	}

	err = handleError(input.Bucket, nil, err)
	if objstore.IsNotFoundError(err) {
		return false, nil
	}

	return false, err
}

func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}

	_, err := c.serviceAPI.CreateBucket(ctx, input)

	return handleError(input.Bucket, nil, err)
}

func (c *Client) GetObject(ctx context.Context, opts objstore.GetObjectOptions) (*objstore.Object, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(opts.Key),
	}

	resp, err := c.serviceAPI.GetObject(ctx, input)
	if err != nil {
		return nil, handleError(input.Bucket, input.Key, err)
	}

	attrs := objstore.ObjectAttrs{
		Key:          opts.Key,
		Size:         resp.ContentLength,
		LastModified: resp.LastModified,
	}

	object := &objstore.Object{
		ObjectAttrs: attrs,
		Body:        resp.Body,
	}

	return object, nil
}

func (c *Client) PutObject(ctx context.Context, opts objstore.PutObjectOptions) error {
	input := &s3.PutObjectInput{
		Body:   opts.Body,
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(opts.Key),
	}

	_, err := c.serviceAPI.PutObject(ctx, input)

	return handleError(input.Bucket, input.Key, err)
}

func (c *Client) DeleteObject(ctx context.Context, opts objstore.DeleteObjectOptions) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(opts.Key),
	}

	_, err := c.serviceAPI.DeleteObject(ctx, input)

	// As defined by the 'Client' interface, deleting a key which does not exist is not an error
	if err = handleError(input.Bucket, input.Key, err); objstore.IsNotFoundError(err) {
		return nil
	}

	return err
}

func (c *Client) ListObjects(ctx context.Context, opts objstore.ListObjectsOptions) (*objstore.ObjectPage, error) {
	size := opts.PageSize
	if size <= 0 || size > PageSize {
		size = PageSize
	}

	input := &s3.ListObjectsV2Input{
		Bucket:            aws.String(opts.Bucket),
		MaxKeys:           aws.Int32(size),
		ContinuationToken: opts.ContinuationToken,
	}

	if opts.Prefix != "" {
		input.Prefix = aws.String(opts.Prefix)
	}

	resp, err := c.serviceAPI.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, handleError(input.Bucket, nil, err)
	}

	page := &objstore.ObjectPage{
		Objects: make([]objstore.ObjectAttrs, 0, len(resp.Contents)),
	}

	for _, object := range resp.Contents {
		page.Objects = append(page.Objects, objstore.ObjectAttrs{
			Key:          aws.ToString(object.Key),
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}

	if aws.ToBool(resp.IsTruncated) {
		page.NextContinuationToken = resp.NextContinuationToken
	}

	return page, nil
}

// Close is a no-op for AWS as this won't result in a memory leak.
func (c *Client) Close() error {
	return nil
}
