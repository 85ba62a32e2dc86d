package eventz

import (
	"errors"
	"fmt"
)

// ErrNotBuffered is returned by Flush when the tracer streams to a file
// and therefore has no buffer to drain.
var ErrNotBuffered = errors.New("eventz: flush on a streaming tracer")

// SerializationError reports an event whose fields could not be encoded
// to JSON. It is surfaced synchronously from the emitting call; nothing
// is committed to the sink when it occurs.
type SerializationError struct {
	Phase Phase
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("eventz: serialize %q event: %v", e.Phase, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ResourceError reports a failure of the underlying trace file.
// A failure mid-write may leave a truncated record in the file; each
// record is written in a single call so the blast radius is at most one
// record's bytes.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("eventz: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
