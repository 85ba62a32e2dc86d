package eventz

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestTracer returns a buffered tracer with a pinned clock and fixed
// process/thread identity, so serialized records are deterministic.
func newTestTracer() *Tracer {
	tracer := New().WithClock(clockz.NewFakeClockAt(testEpoch))
	tracer.pid = func() int { return 42 }
	tracer.tid = func() uint64 { return 7 }
	return tracer
}

// marshalFirst returns the tracer's first buffered record decoded back
// into a generic map, for key-presence checks.
func marshalFirst(t *testing.T, tracer *Tracer) map[string]any {
	t.Helper()

	events := tracer.Events()
	if len(events) == 0 {
		t.Fatal("Expected at least one buffered event")
	}
	encoded, err := json.Marshal(events[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return decoded
}

func TestEventRequiredFields(t *testing.T) {
	tracer := newTestTracer()
	if err := tracer.Mark(); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}

	decoded := marshalFirst(t, tracer)

	if decoded["ph"] != "R" {
		t.Errorf("Expected ph \"R\", got %v", decoded["ph"])
	}
	if int64(decoded["ts"].(float64)) != testEpoch.UnixMicro() {
		t.Errorf("Expected ts %d, got %v", testEpoch.UnixMicro(), decoded["ts"])
	}
	if decoded["pid"].(float64) != 42 {
		t.Errorf("Expected pid 42, got %v", decoded["pid"])
	}
	if decoded["tid"].(float64) != 7 {
		t.Errorf("Expected tid 7, got %v", decoded["tid"])
	}
}

func TestEventOmitsAbsentFields(t *testing.T) {
	tracer := newTestTracer()
	if err := tracer.Instant(); err != nil {
		t.Fatalf("Instant failed: %v", err)
	}

	decoded := marshalFirst(t, tracer)

	for _, key := range []string{"name", "cat", "id", "scope", "dur", "args"} {
		if _, ok := decoded[key]; ok {
			t.Errorf("Expected %q to be omitted, got %v", key, decoded[key])
		}
	}
}

func TestEventKeepsExplicitZeroValues(t *testing.T) {
	// A caller-supplied empty string is a value, not an absence.
	tracer := newTestTracer()
	if err := tracer.Instant(WithName(""), WithCategory("")); err != nil {
		t.Fatalf("Instant failed: %v", err)
	}

	decoded := marshalFirst(t, tracer)

	name, ok := decoded["name"]
	if !ok {
		t.Fatal("Expected explicit empty name to be serialized")
	}
	if name != "" {
		t.Errorf("Expected empty name, got %v", name)
	}
	if _, ok := decoded["cat"]; !ok {
		t.Error("Expected explicit empty category to be serialized")
	}
}

func TestEventKeepsProvidedEmptyArgs(t *testing.T) {
	tracer := newTestTracer()
	if err := tracer.Instant(WithArgs(map[string]any{})); err != nil {
		t.Fatalf("Instant failed: %v", err)
	}

	decoded := marshalFirst(t, tracer)

	args, ok := decoded["args"]
	if !ok {
		t.Fatal("Expected provided empty args to be serialized")
	}
	if len(args.(map[string]any)) != 0 {
		t.Errorf("Expected empty args, got %v", args)
	}
}

func TestEventOptions(t *testing.T) {
	tracer := newTestTracer()
	err := tracer.ObjectCreated(
		WithName("my_ob"),
		WithID("my_id"),
		WithCategory("objects"),
		WithScope(ScopeProcess),
		WithArgs(map[string]any{"size": 16}),
	)
	if err != nil {
		t.Fatalf("ObjectCreated failed: %v", err)
	}

	decoded := marshalFirst(t, tracer)

	if decoded["name"] != "my_ob" {
		t.Errorf("Expected name my_ob, got %v", decoded["name"])
	}
	if decoded["id"] != "my_id" {
		t.Errorf("Expected id my_id, got %v", decoded["id"])
	}
	if decoded["cat"] != "objects" {
		t.Errorf("Expected cat objects, got %v", decoded["cat"])
	}
	if decoded["scope"] != ScopeProcess {
		t.Errorf("Expected scope %q, got %v", ScopeProcess, decoded["scope"])
	}
	args := decoded["args"].(map[string]any)
	if args["size"].(float64) != 16 {
		t.Errorf("Expected args.size 16, got %v", args["size"])
	}
}

func TestEventFieldOrder(t *testing.T) {
	// Serialized key order follows the struct: ph leads, args trails.
	tracer := newTestTracer()
	if err := tracer.Begin("ordered", WithArgs(map[string]any{"k": 1})); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	encoded, err := json.Marshal(tracer.Events()[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(encoded[:6]); got != `{"ph":` {
		t.Errorf("Expected record to open with ph, got %s", got)
	}
}
