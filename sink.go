package eventz

// buffer is the in-memory sink: an ordered sequence of events owned by
// one tracer. It is not internally synchronized - the owning tracer is
// single-writer.
type buffer struct {
	events []Event
}

func newBuffer() *buffer {
	return &buffer{events: make([]Event, 0, 8)}
}

func (b *buffer) append(ev Event) {
	b.events = append(b.events, ev)
}

// drain swaps the sequence for a fresh one and returns the previous
// contents, so no event is lost or duplicated across a drain.
func (b *buffer) drain() []Event {
	drained := b.events
	b.events = make([]Event, 0, 8)
	return drained
}

// snapshot returns a copy of the buffered events. The copy is safe to
// hold across later appends; Args maps are shared with the buffer.
func (b *buffer) snapshot() []Event {
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

func (b *buffer) len() int {
	return len(b.events)
}
