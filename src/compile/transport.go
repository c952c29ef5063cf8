package compile

import (
	"context"
	"errors"
	"fmt"
)

// Transport carries one compile request to the service and back.
type Transport interface {
	Compile(ctx context.Context, req Request) (Response, error)
}

// ErrorKind classifies transport failures.
type ErrorKind string

const (
	KindNetwork   ErrorKind = "network"
	KindStatus    ErrorKind = "status"
	KindMalformed ErrorKind = "malformed"
	KindTimeout   ErrorKind = "timeout"
	KindCanceled  ErrorKind = "canceled"
)

// TransportError is returned by every Transport in this package.
type TransportError struct {
	Kind   ErrorKind
	Status int // HTTP status for KindStatus
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("compile service returned status %d: %v", e.Status, e.Err)
	case KindTimeout:
		return fmt.Sprintf("compile request timed out: %v", e.Err)
	case KindCanceled:
		return "compile request canceled"
	default:
		return fmt.Sprintf("compile %s error: %v", e.Kind, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// KindOf returns the kind of a transport error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// contextError maps a context failure onto a transport error. It returns nil
// when ctx is still live.
func contextError(ctx context.Context) error {
	switch err := ctx.Err(); {
	case errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Kind: KindTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &TransportError{Kind: KindCanceled, Err: err}
	}
	return nil
}

func malformed(err error) error {
	return &TransportError{Kind: KindMalformed, Err: err}
}
