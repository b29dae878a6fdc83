package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork matches every *NetworkError.
	ErrNetwork = errors.New("network error")
	// ErrUnexpectedStatus is wrapped when the backend answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrRemoteTransaction matches every *RemoteTransactionError.
	ErrRemoteTransaction = errors.New("transaction rejected by backend")
)

// NetworkError is a failure to reach the backend or to read its reply.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// RemoteTransactionError is a broadcast the backend accepted over HTTP but
// reported as failed in its output.
type RemoteTransactionError struct {
	Output string
}

func (e *RemoteTransactionError) Error() string {
	return "failed to send transaction: " + e.Output
}

func (e *RemoteTransactionError) Is(target error) bool { return target == ErrRemoteTransaction }
