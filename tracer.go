package eventz

import (
	"bytes"
	"encoding/json"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/zoobzio/clockz"
)

// Tracer records trace events into exactly one sink: an in-memory
// buffer (New) or a growing on-disk JSON array (NewStreaming).
// Not safe for concurrent use - see the package documentation.
//
//nolint:govet // Field order optimized for readability over memory
type Tracer struct {
	buf    *buffer
	stream *stream
	depths map[int]int
	clock  clockz.Clock
	pid    func() int
	tid    func() uint64
}

// New creates a buffered tracer. Events accumulate in memory until
// Flush writes them out in one go.
func New() *Tracer {
	return &Tracer{
		buf:    newBuffer(),
		depths: make(map[int]int),
		clock:  clockz.RealClock,
		pid:    os.Getpid,
		tid:    goroutineID,
	}
}

// NewStreaming creates a tracer that appends each event's JSON encoding
// to the file at path as it is emitted. An empty file is opened with
// the array header; a non-empty one is extended in place.
func NewStreaming(path string) (*Tracer, error) {
	s, err := openStream(path)
	if err != nil {
		return nil, err
	}
	return &Tracer{
		stream: s,
		depths: make(map[int]int),
		clock:  clockz.RealClock,
		pid:    os.Getpid,
		tid:    goroutineID,
	}, nil
}

// WithClock sets the clock used for timestamps and returns the tracer.
// Enables clock injection for deterministic testing.
func (t *Tracer) WithClock(clock clockz.Clock) *Tracer {
	t.clock = clock
	return t
}

// Close releases the streaming file handle. No-op for buffered tracers.
// The file is left mid-array; run Finalize to make it valid JSON.
func (t *Tracer) Close() error {
	if t.stream == nil {
		return nil
	}
	return t.stream.close()
}

// newEvent builds a record stamped with the current time and identity,
// then applies the caller's options.
func (t *Tracer) newEvent(ph Phase, opts ...Option) Event {
	ev := Event{
		Phase:     ph,
		Timestamp: t.clock.Now().UnixMicro(),
		PID:       t.pid(),
		TID:       t.tid(),
	}
	for _, opt := range opts {
		opt(&ev)
	}
	return ev
}

// emit serializes the full record in memory first and only then commits
// it, so a serialization failure never produces a partial file write.
func (t *Tracer) emit(ev Event) error {
	encoded, err := json.Marshal(ev)
	if err != nil {
		return &SerializationError{Phase: ev.Phase, Err: err}
	}
	if t.stream != nil {
		return t.stream.append(encoded)
	}
	t.buf.append(ev)
	return nil
}

// Begin emits a span begin ("B") and opens one span on this process's
// depth count.
func (t *Tracer) Begin(name string, opts ...Option) error {
	ev := t.newEvent(PhaseBegin, opts...)
	ev.Name = &name
	if err := t.emit(ev); err != nil {
		return err
	}
	t.depths[ev.PID]++
	return nil
}

// End emits a span end ("E") and closes one span on this process's
// depth count. Ending more spans than were begun drives the count
// negative; that is the caller's contract to keep, not the tracer's.
func (t *Tracer) End(opts ...Option) error {
	ev := t.newEvent(PhaseEnd, opts...)
	if err := t.emit(ev); err != nil {
		return err
	}
	t.depths[ev.PID]--
	return nil
}

// Complete emits a complete span ("X") captured retroactively: start
// and dur are caller-supplied microseconds, and start replaces the
// wall-clock timestamp.
func (t *Tracer) Complete(start, dur int64, opts ...Option) error {
	ev := t.newEvent(PhaseComplete, opts...)
	ev.Timestamp = start
	ev.Duration = &dur
	return t.emit(ev)
}

// Instant emits an instant event ("I"). Pass WithScope to widen it from
// the default thread scope.
func (t *Tracer) Instant(opts ...Option) error {
	return t.emit(t.newEvent(PhaseInstant, opts...))
}

// Counter emits a counter sample ("C"). The arg values are the counter
// series tracked under name.
func (t *Tracer) Counter(name string, args map[string]any, opts ...Option) error {
	ev := t.newEvent(PhaseCounter, opts...)
	ev.Name = &name
	ev.Args = args
	return t.emit(ev)
}

// AsyncStart emits an async begin ("b"). Pass WithID to correlate it
// with the matching AsyncEnd.
func (t *Tracer) AsyncStart(opts ...Option) error {
	return t.emit(t.newEvent(PhaseAsyncStart, opts...))
}

// AsyncInstant emits an async instant ("n").
func (t *Tracer) AsyncInstant(opts ...Option) error {
	return t.emit(t.newEvent(PhaseAsyncInstant, opts...))
}

// AsyncEnd emits an async end ("e").
func (t *Tracer) AsyncEnd(opts ...Option) error {
	return t.emit(t.newEvent(PhaseAsyncEnd, opts...))
}

// FlowStart emits a flow begin ("s").
func (t *Tracer) FlowStart(opts ...Option) error {
	return t.emit(t.newEvent(PhaseFlowStart, opts...))
}

// FlowInstant emits a flow step ("t").
func (t *Tracer) FlowInstant(opts ...Option) error {
	return t.emit(t.newEvent(PhaseFlowInstant, opts...))
}

// FlowEnd emits a flow end ("f").
func (t *Tracer) FlowEnd(opts ...Option) error {
	return t.emit(t.newEvent(PhaseFlowEnd, opts...))
}

// ObjectCreated emits an object creation ("N").
func (t *Tracer) ObjectCreated(opts ...Option) error {
	return t.emit(t.newEvent(PhaseObjectCreated, opts...))
}

// ObjectSnapshot emits an object snapshot ("O").
func (t *Tracer) ObjectSnapshot(opts ...Option) error {
	return t.emit(t.newEvent(PhaseObjectSnapshot, opts...))
}

// ObjectDestroyed emits an object destruction ("D").
func (t *Tracer) ObjectDestroyed(opts ...Option) error {
	return t.emit(t.newEvent(PhaseObjectDestroyed, opts...))
}

// Metadata emits a metadata record ("M") such as process_name or
// thread_sort_index. The payload lives entirely in args.
func (t *Tracer) Metadata(name string, args map[string]any) error {
	ev := t.newEvent(PhaseMetadata)
	ev.Name = &name
	ev.Args = args
	return t.emit(ev)
}

// Mark emits a navigation timing mark ("R").
func (t *Tracer) Mark(opts ...Option) error {
	return t.emit(t.newEvent(PhaseMark, opts...))
}

// ClockSync emits a clock sync marker ("c"). The sync id goes into the
// event args; WithIssueTS adds the issuing agent's send timestamp for
// the receiving side of a two-sided sync.
func (t *Tracer) ClockSync(syncID string, opts ...Option) error {
	ev := t.newEvent(PhaseClockSync, opts...)
	args := map[string]any{"sync_id": syncID}
	if ev.issueTS != nil {
		args["issue_ts"] = *ev.issueTS
	}
	ev.Args = args
	return t.emit(ev)
}

// ContextEnter emits a context begin ("(").
func (t *Tracer) ContextEnter(opts ...Option) error {
	return t.emit(t.newEvent(PhaseContextEnter, opts...))
}

// ContextLeave emits a context end (")").
func (t *Tracer) ContextLeave(opts ...Option) error {
	return t.emit(t.newEvent(PhaseContextLeave, opts...))
}

// Clear force-closes every span still open on this process by emitting
// one synthetic End per outstanding Begin. The synthetic ends carry no
// name - the tracker counts open spans, it does not remember them - so
// this is a flat unwind, not a stack-aware one. A tracer whose process
// never began a span is left untouched.
func (t *Tracer) Clear() error {
	pid := t.pid()
	if _, ok := t.depths[pid]; !ok {
		return nil
	}
	for t.depths[pid] > 0 {
		if err := t.End(); err != nil {
			return err
		}
	}
	return nil
}

// Events returns a copy of the buffered records, in emission order.
// Nil for streaming tracers.
func (t *Tracer) Events() []Event {
	if t.buf == nil {
		return nil
	}
	return t.buf.snapshot()
}

// Len returns the number of buffered records. Zero for streaming
// tracers.
func (t *Tracer) Len() int {
	if t.buf == nil {
		return 0
	}
	return t.buf.len()
}

// Depth returns the number of spans currently open on this process.
func (t *Tracer) Depth() int {
	return t.depths[t.pid()]
}

// String renders the buffered records one per line for debugging.
func (t *Tracer) String() string {
	if t.buf == nil {
		return "eventz.Tracer(streaming " + t.stream.path + ")"
	}
	var b strings.Builder
	for i, ev := range t.buf.events {
		if i > 0 {
			b.WriteByte('\n')
		}
		encoded, err := json.Marshal(ev)
		if err != nil {
			b.WriteString(string(ev.Phase) + ": " + err.Error())
			continue
		}
		b.Write(encoded)
	}
	return b.String()
}

// goroutineID reports the current goroutine's id as the thread identity
// stamped on records. Parsed from the runtime's stack header:
// "goroutine 123 [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
