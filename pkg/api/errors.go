package api

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

// NetworkError means no complete response was received: connection refused, DNS failure,
// timeout, or a body cut off mid-read.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() (msg string) {
	msg = "Network Error"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NetworkError) Unwrap() (err error) {
	err = e.Err
	return err
}

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() (timeout bool) {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		timeout = true
		return timeout
	}

	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		timeout = netErr.Timeout()
	}

	return timeout
}

// IsNetworkError reports whether err is, or wraps, a *NetworkError.
func IsNetworkError(err error) (ok bool) {
	var netErr *NetworkError
	ok = errors.As(err, &netErr)
	return ok
}
