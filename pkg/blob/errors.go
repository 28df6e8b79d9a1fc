package blob

import "errors"

var (
	// ErrNotFound is returned when a blob does not exist
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidID is returned when the identifier is not a valid object id
	ErrInvalidID = errors.New("invalid blob id")

	// ErrBucketUnavailable is returned when the GridFS bucket cannot be created
	ErrBucketUnavailable = errors.New("gridfs bucket unavailable")

	ErrStoreFailed  = errors.New("failed to store blob")
	ErrOpenFailed   = errors.New("failed to open blob")
	ErrDeleteFailed = errors.New("failed to delete blob")
)
