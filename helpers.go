package eventz

import "runtime"

// Adapters over the core emission API. They deliberately discard
// emission errors: a helper that traces control flow must not alter it.

// Span begins a named span and returns the func that ends it, for use
// with defer:
//
//	defer tracer.Span("load config")()
//
// The end runs on every exit path, including panics.
func (t *Tracer) Span(name string, opts ...Option) func() {
	_ = t.Begin(name, opts...)
	return func() { _ = t.End() }
}

// Wrap returns a function that brackets every invocation of fn with a
// begin/end pair.
func (t *Tracer) Wrap(name string, fn func()) func() {
	return func() {
		defer t.Span(name)()
		fn()
	}
}

// Func begins a span named after the calling function and returns the
// func that ends it:
//
//	func loadIndex() {
//		defer tracer.Func()()
//		// ...
//	}
func (t *Tracer) Func() func() {
	name := "unknown"
	args := map[string]any{}
	if pc, file, line, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			name = fn.Name()
		}
		args["filename"] = file
		args["lineno"] = line
	}
	_ = t.Begin(name, WithArgs(args))
	return func() { _ = t.End() }
}
