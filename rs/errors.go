package rs

import (
	"errors"
	"fmt"

	"github.com/roessland/runstreak/runalyze"
)

// ErrNoSession means there is no usable Runalyze session: the token variable
// is unset, cannot be decoded, or the session behind it has expired.
var ErrNoSession = errors.New("no valid Runalyze session")

// RemoteServiceError wraps failures talking to Runalyze (connectivity, rate
// limiting, unexpected responses)
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("runalyze %s failed: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// RateLimited reports whether Runalyze refused the request with HTTP 429
func (e *RemoteServiceError) RateLimited() bool {
	return errors.Is(e.Err, runalyze.ErrTooManyRequests)
}

// remoteError maps a client error to ErrNoSession or a RemoteServiceError
func remoteError(op string, err error) error {
	if errors.Is(err, runalyze.ErrRedirectedToLogin) {
		return ErrNoSession
	}
	return &RemoteServiceError{Op: op, Err: err}
}
