package objaws

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"

	"github.com/bcncpp/s3newbench/objstore"
)

// handleError converts an error relating to accessing an object via its key into a user friendly error where possible.
func handleError(bucket, key *string, err error) error {
	var apiErr smithy.APIError
	if err == nil || !errors.As(err, &apiErr) {
		return objstore.HandleError(err)
	}

	switch apiErr.ErrorCode() {
	case "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return objstore.ErrUnauthenticated
	case "AccessDenied":
		return objstore.ErrUnauthorized
	case "NoSuchKey":
		if key == nil {
			key = aws.String("<empty key name>")
		}

		return &objstore.NotFoundError{Type: "key", Name: *key}
	case "NoSuchBucket", "NotFound":
		// 'HeadBucket'/'HeadObject' return a bare 404 with no error code body, surfaced by the SDK as 'NotFound'
		name, kind := bucket, "bucket"
		if key != nil {
			name, kind = key, "key"
		}

		if name == nil {
			name = aws.String("<empty name>")
		}

		return &objstore.NotFoundError{Type: kind, Name: *name}
	}

	if handled := objstore.TryHandleError(err); handled != nil {
		return handled
	}

	// This isn't a status code we plan to handle manually, return the complete error
	return err
}
