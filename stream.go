package eventz

import (
	"os"

	"github.com/gofrs/flock"
)

// arrayOpen is the token that turns an empty file into the head of a
// perpetually unclosed JSON array.
const arrayOpen = "[\n"

// recordSep follows every appended record. Finalize strips the last one.
const recordSep = ",\n"

// stream is the file sink: an exclusively-owned append-mode handle.
// Other tracer instances, including ones in other processes, may open
// the same path; every write to it is taken under an advisory exclusive
// lock so concurrent appends cannot tear each other.
type stream struct {
	file *os.File
	lock *flock.Flock
	path string
}

func openStream(path string) (*stream, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &ResourceError{Op: "open", Path: path, Err: err}
	}
	s := &stream{file: f, lock: flock.New(path), path: path}
	if err := s.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// writeHeader establishes the array-opening token if the file is empty.
// The size check and the write share one lock hold, so two instances
// racing on a fresh file produce exactly one header.
func (s *stream) writeHeader() error {
	if err := s.lock.Lock(); err != nil {
		return &ResourceError{Op: "lock", Path: s.path, Err: err}
	}
	defer s.lock.Unlock()

	info, err := s.file.Stat()
	if err != nil {
		return &ResourceError{Op: "stat", Path: s.path, Err: err}
	}
	if info.Size() == 0 {
		if _, err := s.file.WriteString(arrayOpen); err != nil {
			return &ResourceError{Op: "write", Path: s.path, Err: err}
		}
	}
	return nil
}

// append commits one pre-encoded record. Record and separator go out in
// a single write call, so a torn write is limited to one record.
func (s *stream) append(encoded []byte) error {
	if err := s.lock.Lock(); err != nil {
		return &ResourceError{Op: "lock", Path: s.path, Err: err}
	}
	defer s.lock.Unlock()

	line := make([]byte, 0, len(encoded)+len(recordSep))
	line = append(line, encoded...)
	line = append(line, recordSep...)
	if _, err := s.file.Write(line); err != nil {
		return &ResourceError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *stream) close() error {
	if err := s.file.Close(); err != nil {
		return &ResourceError{Op: "close", Path: s.path, Err: err}
	}
	return nil
}
