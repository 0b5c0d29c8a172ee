package objaws

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcncpp/s3newbench/objstore"
)

func TestHandleError(t *testing.T) {
	type test struct {
		name     string
		code     string
		expected error
	}

	tests := []*test{
		{name: "InvalidAccessKeyId", code: "InvalidAccessKeyId", expected: objstore.ErrUnauthenticated},
		{name: "SignatureDoesNotMatch", code: "SignatureDoesNotMatch", expected: objstore.ErrUnauthenticated},
		{name: "AccessDenied", code: "AccessDenied", expected: objstore.ErrUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := handleError(aws.String("bucket"), aws.String("key"), &smithy.GenericAPIError{Code: test.code})
			require.ErrorIs(t, err, test.expected)
		})
	}
}

func TestHandleErrorNoSuchKey(t *testing.T) {
	err := handleError(aws.String("bucket"), aws.String("key"), &smithy.GenericAPIError{Code: "NoSuchKey"})
	require.True(t, objstore.IsNotFoundError(err))

	var notFound *objstore.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "key", notFound.Type)
	require.Equal(t, "key", notFound.Name)
}

func TestHandleErrorNoSuchBucket(t *testing.T) {
	err := handleError(aws.String("bucket"), nil, &smithy.GenericAPIError{Code: "NoSuchBucket"})
	require.True(t, objstore.IsNotFoundError(err))

	var notFound *objstore.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "bucket", notFound.Type)
	require.Equal(t, "bucket", notFound.Name)
}

func TestHandleErrorBareNotFound(t *testing.T) {
	// A key takes precedence over the bucket when both are present, the operation was against the key
	err := handleError(aws.String("bucket"), aws.String("key"), &smithy.GenericAPIError{Code: "NotFound"})

	var notFound *objstore.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "key", notFound.Type)
}

func TestHandleErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to execute operation: %w", &smithy.GenericAPIError{Code: "AccessDenied"})
	require.ErrorIs(t, handleError(aws.String("bucket"), nil, wrapped), objstore.ErrUnauthorized)
}

func TestHandleErrorUnknownCodePassedThrough(t *testing.T) {
	err := &smithy.GenericAPIError{Code: "SlowDown"}
	require.Equal(t, error(err), handleError(aws.String("bucket"), nil, err))
}

func TestHandleErrorNil(t *testing.T) {
	require.NoError(t, handleError(aws.String("bucket"), nil, nil))
}

func TestHandleErrorNonAPIError(t *testing.T) {
	require.ErrorIs(t, handleError(aws.String("bucket"), nil, assert.AnError), assert.AnError)
}
