package storage

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrNotFound      = errors.New("storage: file not found")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrListFailed    = errors.New("storage: list failed")
)

// apiCodes maps S3 error codes to sentinels. Bad credentials are reported
// as access denied so an operator sees one cause for a misconfigured bucket.
var apiCodes = map[string]error{
	"NoSuchKey":             ErrNotFound,
	"NotFound":              ErrNotFound,
	"NoSuchBucket":          ErrNotFound,
	"AccessDenied":          ErrAccessDenied,
	"Forbidden":             ErrAccessDenied,
	"InvalidAccessKeyId":    ErrAccessDenied,
	"SignatureDoesNotMatch": ErrAccessDenied,
}

// wrapS3Error classifies err under a sentinel, falling back to fallback.
// The AWS error is formatted with %v so callers match sentinels only.
func wrapS3Error(err error, fallback error) error {
	sentinel := fallback

	var apiErr smithy.APIError
	var noKey *types.NoSuchKey
	switch {
	case errors.As(err, &noKey):
		sentinel = ErrNotFound
	case errors.As(err, &apiErr):
		if s, ok := apiCodes[apiErr.ErrorCode()]; ok {
			sentinel = s
		}
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
