package warehouse

import "errors"

// Sentinel errors the backends wrap so callers can classify destination
// rejections with errors.Is without touching driver types.
var (
	// ErrNotFound: the destination table does not exist.
	ErrNotFound = errors.New("table not found")

	// ErrBadRequest: the destination rejected the submitted data or
	// statement as malformed (the HTTP 400 class and its SQL analogues).
	ErrBadRequest = errors.New("destination rejected request")
)
