package eventz

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/gofrs/flock"
)

// Flush drains the buffer and appends its contents to the file at path
// under the same perpetual-array convention as streaming mode: the
// serialized array's closing bracket becomes the trailing separator,
// and its opening bracket is dropped when the target already holds
// prior records. Fails with ErrNotBuffered on a streaming tracer.
// After a successful flush the buffer is empty; an empty buffer flushes
// to nothing at all, leaving the target untouched.
func (t *Tracer) Flush(path string) error {
	if t.stream != nil {
		return ErrNotBuffered
	}

	if t.buf.len() == 0 {
		return nil
	}

	// Serialize before draining so a failure here leaves the buffer
	// intact. Reachable when a caller mutates an Args map it still
	// shares with a committed record.
	encoded, err := json.Marshal(t.buf.events)
	if err != nil {
		return &SerializationError{Err: err}
	}
	t.buf.drain()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &ResourceError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return &ResourceError{Op: "lock", Path: path, Err: err}
	}
	defer lock.Unlock()

	info, err := f.Stat()
	if err != nil {
		return &ResourceError{Op: "stat", Path: path, Err: err}
	}
	if info.Size() != 0 {
		// Splice into the existing open array rather than starting a
		// second one.
		encoded = encoded[1:]
	}
	encoded = append(encoded[:len(encoded)-1], recordSep...)

	if _, err := f.Write(encoded); err != nil {
		return &ResourceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Finalize turns a live trace file into valid JSON by stripping the
// final record's trailing separator and closing the array. After this
// no tracer should append to the file again.
func Finalize(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &ResourceError{Op: "stat", Path: path, Err: err}
	}

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return &ResourceError{Op: "lock", Path: path, Err: err}
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return &ResourceError{Op: "read", Path: path, Err: err}
	}
	data = bytes.TrimSuffix(data, []byte(recordSep))
	data = append(data, '\n', ']')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ResourceError{Op: "write", Path: path, Err: err}
	}
	return nil
}
