package debug

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDebugDisabled(t *testing.T) {
	// Ensure debug is disabled
	SetEnabled(false)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	// Should return nil when disabled
	if session != nil {
		t.Error("NewSession should return nil when disabled")
	}

	// Emit should be no-op on nil session
	session.Emit("test", "Event", nil)

	if buf.Len() > 0 {
		t.Error("Events emitted when debug disabled")
	}
}

func TestDebugEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	if session == nil {
		t.Fatal("NewSession should return non-nil when enabled")
	}

	// Emit test event
	session.Emit("test", "TestEvent", map[string]string{
		"key": "value",
	})

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Parse and verify JSON lines
	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) < 3 { // Start, TestEvent, End
		t.Fatalf("Expected at least 3 lines, got %d", len(lines))
	}

	// Verify first event is session start
	var startEvent Event
	if err := json.Unmarshal([]byte(lines[0]), &startEvent); err != nil {
		t.Fatalf("Failed to parse start event: %v", err)
	}
	if startEvent.Phase != "session" || startEvent.Event != "Start" {
		t.Errorf("Expected session/Start, got %s/%s", startEvent.Phase, startEvent.Event)
	}

	// Verify test event
	var testEvent Event
	if err := json.Unmarshal([]byte(lines[1]), &testEvent); err != nil {
		t.Fatalf("Failed to parse test event: %v", err)
	}
	if testEvent.Phase != "test" || testEvent.Event != "TestEvent" {
		t.Errorf("Expected test/TestEvent, got %s/%s", testEvent.Phase, testEvent.Event)
	}
	if testEvent.SessionID == "" {
		t.Error("Session ID should not be empty")
	}

	// Verify last event is session end
	var endEvent Event
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &endEvent); err != nil {
		t.Fatalf("Failed to parse end event: %v", err)
	}
	if endEvent.Phase != "session" || endEvent.Event != "End" {
		t.Errorf("Expected session/End, got %s/%s", endEvent.Phase, endEvent.Event)
	}
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	event := Event{
		Timestamp: "2025-01-01T00:00:00Z",
		SessionID: "abc123",
		Phase:     "test",
		Event:     "TestEvent",
		Data:      map[string]int{"count": 42},
	}

	if err := sink.Write(event); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	var parsed Event
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if parsed.Phase != "test" || parsed.Event != "TestEvent" {
		t.Errorf("Unexpected event: %+v", parsed)
	}
}

func TestPrettySink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPrettySink(&buf)

	events := []Event{
		{
			Timestamp: "2025-01-01T00:00:00Z",
			SessionID: "abc123",
			Phase:     "table",
			Event:     "Built",
			Data: TableData{
				Dir:       "sg0",
				Rows:      2,
				Slots:     128,
				Populated: 70,
				Classes:   map[string]int{ClassKana: 60, ClassASCII: 10},
			},
		},
		{
			Timestamp: "2025-01-01T00:00:00Z",
			SessionID: "abc123",
			Phase:     "compound",
			Event:     "Expanded",
			Data: CompoundData{
				Dir:          "sg0",
				Declarations: 3,
				Codepoints:   6,
				Collisions:   []string{"U+E01C"},
			},
		},
	}

	for _, event := range events {
		if err := sink.Write(event); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"[table/Built] session=abc123",
		"rows: 2, slots: 128, populated: 70",
		"classes: ascii=10 kana=60",
		"overwritten: U+E01C",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Pretty output should contain %q, got: %s", want, output)
		}
	}
}

func TestSessionError(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	session := NewSession(NewJSONSink(&buf))
	session.Error("profile", "missing_resource", errors.New("boom"), map[string]interface{}{
		"path": "sg0/charset.utf8",
	})
	session.Error("profile", "ignored", nil, nil)
	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 { // Start, Error, End
		t.Fatalf("Expected 3 lines, got %d: %v", len(lines), lines)
	}

	var evt struct {
		Phase string    `json:"phase"`
		Event string    `json:"event"`
		Data  ErrorData `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &evt); err != nil {
		t.Fatalf("Failed to parse error event: %v", err)
	}
	if evt.Phase != "profile" || evt.Event != "Error" {
		t.Errorf("Expected profile/Error, got %s/%s", evt.Phase, evt.Event)
	}
	if evt.Data.Type != "missing_resource" || evt.Data.Message != "boom" {
		t.Errorf("Unexpected error data: %+v", evt.Data)
	}
	if evt.Data.Context["path"] != "sg0/charset.utf8" {
		t.Errorf("Context path = %v, want sg0/charset.utf8", evt.Data.Context["path"])
	}
}

func TestClassifyGlyph(t *testing.T) {
	tests := []struct {
		r    rune
		want string
	}{
		{0, ""},
		{' ', ClassSpace},
		{'A', ClassASCII},
		{'Ａ', ClassFullwidth},
		{'！', ClassFullwidth},
		{'漢', ClassHan},
		{'あ', ClassKana},
		{'カ', ClassKana},
		{'\uE01C', ClassPUA},
		{'¹', ClassOther},
	}

	for _, tt := range tests {
		if got := ClassifyGlyph(tt.r); got != tt.want {
			t.Errorf("ClassifyGlyph(%U) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestClassifyTable(t *testing.T) {
	got := ClassifyTable([]rune{' ', 'A', 0, 0, 'B', '\uE000'})
	if got[ClassSpace] != 1 || got[ClassASCII] != 2 || got[ClassPUA] != 1 {
		t.Errorf("ClassifyTable() = %v", got)
	}
	if len(got) != 3 {
		t.Errorf("ClassifyTable() has %d classes, want 3", len(got))
	}
}

func TestSessionID(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	if session == nil {
		t.Fatal("NewSession should return non-nil when enabled")
	}

	id := session.SessionID()
	if id == "" {
		t.Error("SessionID should not be empty")
	}
	if len(id) != 8 { // 4 bytes hex encoded = 8 characters
		t.Errorf("SessionID should be 8 characters, got %d", len(id))
	}

	session.Close()
}

func TestNilSessionSafety(t *testing.T) {
	// All operations on nil session should be safe
	var session *Session

	// Should not panic
	session.Emit("test", "Event", nil)

	if err := session.Close(); err != nil {
		t.Errorf("Close on nil session should return nil, got %v", err)
	}

	if id := session.SessionID(); id != "" {
		t.Errorf("SessionID on nil session should return empty, got %v", id)
	}
}

// BenchmarkEmitDisabled verifies zero overhead when debug is disabled.
func BenchmarkEmitDisabled(b *testing.B) {
	SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("test", "Event", nil)
	}

	if buf.Len() > 0 {
		b.Error("Buffer should be empty when disabled")
	}
}

// BenchmarkEmitEnabled measures overhead when debug is enabled.
func BenchmarkEmitEnabled(b *testing.B) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	sink := NewJSONSink(&buf)
	session := NewSession(sink)

	data := TableData{
		Dir:       "sghd",
		Rows:      120,
		Slots:     7680,
		Populated: 7000,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		session.Emit("table", "Built", data)
	}
}
