package eventz

// Event is a single trace entry in the Chrome Trace Event Format.
// Optional fields are pointers so that an absent value is omitted from
// the serialized object entirely, while an explicitly provided zero
// value (empty name, zero duration) is kept.
//
//nolint:govet // Field order matches serialized key order
type Event struct {
	Phase     Phase          `json:"ph"`
	Timestamp int64          `json:"ts"`
	PID       int            `json:"pid"`
	TID       uint64         `json:"tid"`
	Name      *string        `json:"name,omitempty"`
	Category  *string        `json:"cat,omitempty"`
	ID        *string        `json:"id,omitempty"`
	Scope     *string        `json:"scope,omitempty"`
	Duration  *int64         `json:"dur,omitempty"`
	Args      map[string]any `json:"args,omitzero"`

	// issueTS is staged by WithIssueTS and moved into Args by ClockSync.
	issueTS *int64
}

// Option sets an optional field on an event at emission time.
// An option that is not passed leaves its field absent from the
// serialized record.
type Option func(*Event)

// WithName sets the event name.
func WithName(name string) Option {
	return func(e *Event) { e.Name = &name }
}

// WithCategory sets the event category list ("cat").
func WithCategory(cat string) Option {
	return func(e *Event) { e.Category = &cat }
}

// WithID sets the correlation id used by async, flow, object and
// context events.
func WithID(id string) Option {
	return func(e *Event) { e.ID = &id }
}

// WithScope sets the event scope, e.g. ScopeProcess for instants.
func WithScope(scope string) Option {
	return func(e *Event) { e.Scope = &scope }
}

// WithArgs attaches arbitrary JSON-serializable arguments. Values that
// cannot be serialized cause the emitting call to fail with a
// SerializationError before anything reaches the sink.
func WithArgs(args map[string]any) Option {
	return func(e *Event) { e.Args = args }
}

// WithIssueTS sets the issuing agent's send timestamp in microseconds.
// Only meaningful on ClockSync, which places it in the event args.
func WithIssueTS(ts int64) Option {
	return func(e *Event) { e.issueTS = &ts }
}
