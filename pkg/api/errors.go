package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by single-object finders when the response
	// holds no node at the finder's path.
	ErrNotFound = errors.New("api: not found")
	// ErrAmbiguous is returned by single-object finders when the response
	// holds more than one node at the finder's path.
	ErrAmbiguous = errors.New("api: ambiguous result")
	// ErrUnsupportedOption is returned when an option value has no
	// deterministic wire representation.
	ErrUnsupportedOption = errors.New("api: unsupported option value")
	// ErrNoSource is returned when a file parameter was built without a
	// source.
	ErrNoSource = errors.New("api: file parameter has no source")
)

// RemoteError is an error payload returned by the remote API
// (<rsp stat="fail"><err code=".." msg=".."/></rsp>).
type RemoteError struct {
	Method  string
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote error %s: %s", e.Method, e.Code, e.Message)
}

// TransportError is a failure below the RPC layer: the request could not be
// sent, the server answered with a non-2xx status, or the body could not be
// read or parsed. StatusCode is zero when no HTTP response was received.
type TransportError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SourceError reports a file parameter whose payload could not be read.
type SourceError struct {
	Filename string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Filename, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
