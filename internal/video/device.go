package video

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why media capture could not start. Each kind maps to a
// distinct user-facing remediation message.
type ErrorKind string

const (
	ErrPermissionDenied ErrorKind = "permission-denied"
	ErrDeviceNotFound   ErrorKind = "device-not-found"
	ErrUnsupported      ErrorKind = "unsupported"
	ErrUnknown          ErrorKind = "unknown"
)

// CaptureError wraps a device acquisition failure with its kind.
type CaptureError struct {
	Kind ErrorKind
	Err  error
}

func (e *CaptureError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// KindOf extracts the error kind from a capture error chain.
func KindOf(err error) ErrorKind {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ErrUnknown
}

// Message returns the user-facing remediation message for a capture error.
func Message(kind ErrorKind) string {
	switch kind {
	case ErrPermissionDenied:
		return "Camera and microphone access was denied. Allow access and try again."
	case ErrDeviceNotFound:
		return "No camera or microphone was found on this device."
	case ErrUnsupported:
		return "Video recording is not supported in this environment."
	default:
		return "Could not start recording. Please try again."
	}
}

// Device is the capability port over platform media capture. Implementations
// acquire a camera+microphone stream; the recorder never touches hardware
// directly, so the state machine is testable with a fake.
type Device interface {
	Acquire(ctx context.Context) (Stream, error)
}

// Stream is one live capture session. Chunks delivers buffered media data
// until the stream ends; StopTracks releases the underlying hardware and must
// be safe to call more than once.
type Stream interface {
	Chunks() <-chan []byte
	StopTracks()
}
