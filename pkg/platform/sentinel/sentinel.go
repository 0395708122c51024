package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Dataset sources and platform
// clients return these (optionally wrapped) so services can translate them
// into domain errors.
//
//   - ErrNotFound: the requested document or row does not exist
//   - ErrUnavailable: the backing service could not be reached
//   - ErrMalformed: the backing data exists but cannot be decoded
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed")
)
