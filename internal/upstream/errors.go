package upstream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies terminal upstream failures.
type ErrorKind string

const (
	// KindUnavailable means retries were exhausted (network failure, 5xx, 429).
	KindUnavailable ErrorKind = "unavailable"
	// KindAuth means the upstream rejected our credentials (401/403). This is
	// misconfiguration, not data absence, and is never retried.
	KindAuth ErrorKind = "auth"
	// KindFatal covers non-retryable responses outside the auth class.
	KindFatal ErrorKind = "fatal"
)

// Error is the terminal failure reported by the retrying caller.
type Error struct {
	Kind     ErrorKind
	Upstream string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Upstream != "" {
		msg = e.Upstream + " " + msg
	}
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (status=%d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError attempts to unwrap an error into an upstream Error.
func AsError(err error) (*Error, bool) {
	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}
