// Package eventz is a minimal, primitive event tracing library.
//
// eventz records structured timing and annotation events and serializes.
// them in the Chrome Trace Event Format: an array of JSON objects
// describing begin/end spans, instants, counters, async/flow events,
// object lifecycle events, metadata, and clock-sync markers.
//
// Core Components:.
//   - Tracer: builds event records and commits them to its sink.
//   - Event: a single trace entry, the atomic unit of output.
//   - Option: optional per-call fields (name, category, id, args, scope).
//
// Basic Usage:.
//
//	tracer := eventz.New()
//
//	tracer.Begin("handle request")
//	// ... work ...
//	tracer.End()
//
//	// Write everything out in one go.
//	tracer.Flush("trace.json")
//
// Streaming:.
//
// A tracer built with NewStreaming appends each record to the file as it
// is emitted, so a trace survives a crash of the traced program:
//
//	tracer, err := eventz.NewStreaming("trace.json")
//	if err != nil {
//		// ...
//	}
//	defer tracer.Close()
//
// A live trace file is a perpetually unclosed JSON array. It becomes
// valid JSON only after Finalize (or `eventz finalize`) strips the
// trailing separator and closes the array.
//
// Thread Safety:.
//
// A single Tracer's owned state (buffer or file handle) is single-writer;
// concurrent use of one instance from multiple goroutines requires
// external synchronization. Separate instances may stream to the same
// file path, even across processes - each append is taken under an
// advisory exclusive lock on the file.
//
// Sink Modes:.
//
// A tracer is created in exactly one sink mode, fixed for its lifetime:
// buffered (New) or streaming (NewStreaming). Flush is only meaningful
// for buffered tracers and fails with ErrNotBuffered otherwise.
package eventz

// Phase identifies the kind of a trace event. It is the value of the
// "ph" field of each serialized record; the set of codes is closed.
type Phase string

// Event phase codes from the Trace Event Format.
const (
	PhaseBegin           Phase = "B"
	PhaseEnd             Phase = "E"
	PhaseComplete        Phase = "X"
	PhaseInstant         Phase = "I"
	PhaseCounter         Phase = "C"
	PhaseAsyncStart      Phase = "b"
	PhaseAsyncInstant    Phase = "n"
	PhaseAsyncEnd        Phase = "e"
	PhaseFlowStart       Phase = "s"
	PhaseFlowInstant     Phase = "t"
	PhaseFlowEnd         Phase = "f"
	PhaseObjectCreated   Phase = "N"
	PhaseObjectSnapshot  Phase = "O"
	PhaseObjectDestroyed Phase = "D"
	PhaseMetadata        Phase = "M"
	PhaseMark            Phase = "R"
	PhaseClockSync       Phase = "c"
	PhaseContextEnter    Phase = "("
	PhaseContextLeave    Phase = ")"
)

// Instant event scopes. Not validated at write time.
const (
	ScopeGlobal  = "g"
	ScopeProcess = "p"
	ScopeThread  = "t"
)
