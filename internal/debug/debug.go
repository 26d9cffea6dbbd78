// Package debug traces how glyph tables, compound maps and game profiles are
// built.
//
// Tracing is off unless SCTABLES_DEBUG=1 or --debug turns it on. A nil
// *Session is valid and drops every event, so call sites need no checks.
// Events are JSON Lines by default, with a pretty format for humans.
package debug

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"
)

// enabled is the global debug flag - set once at startup.
var enabled uint32

// SetEnabled configures debug mode globally.
// This should be called once at program startup.
func SetEnabled(on bool) {
	if on {
		atomic.StoreUint32(&enabled, 1)
	} else {
		atomic.StoreUint32(&enabled, 0)
	}
}

// Enabled returns true if debug mode is active.
func Enabled() bool {
	return atomic.LoadUint32(&enabled) == 1
}

// Environment variables recognised by InitFromEnv and PrettyFromEnv.
const (
	EnvDebug  = "SCTABLES_DEBUG"
	EnvPretty = "SCTABLES_DEBUG_PRETTY"
)

// InitFromEnv enables debug mode when SCTABLES_DEBUG=1.
func InitFromEnv() {
	if os.Getenv(EnvDebug) == "1" {
		SetEnabled(true)
	}
}

// PrettyFromEnv reports whether SCTABLES_DEBUG_PRETTY=1.
func PrettyFromEnv() bool {
	return os.Getenv(EnvPretty) == "1"
}

// Session represents a debug session for one catalog or profile build.
// A session must not be shared by concurrent builds.
type Session struct {
	sessionID string
	sink      Sink
	startTime time.Time
}

// NewSession creates a new debug session with the provided sink.
// Returns nil if debug mode is not enabled.
func NewSession(sink Sink) *Session {
	if !Enabled() {
		return nil
	}
	if sink == nil {
		return nil
	}

	s := &Session{
		sessionID: generateSessionID(),
		sink:      sink,
		startTime: time.Now(),
	}

	// Emit session start event
	s.Emit("session", "Start", map[string]interface{}{
		"version": "1.0",
	})

	return s
}

// SessionID returns the unique identifier for this session.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.sessionID
}

// Emit sends an event to the sink.
// This is a no-op if the session is nil (fast-path for disabled debug).
func (s *Session) Emit(phase, event string, data interface{}) {
	if s == nil {
		return
	}

	evt := Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.sessionID,
		Phase:     phase,
		Event:     event,
		Data:      data,
	}

	// Write errors are intentionally ignored - debug failures should not break normal operation
	//nolint:errcheck // Debug sink errors are non-critical
	s.sink.Write(evt)
}

// Error emits an ErrorData event for err under phase.
// kind names the failure class, e.g. "missing_resource".
func (s *Session) Error(phase, kind string, err error, context map[string]interface{}) {
	if s == nil || err == nil {
		return
	}
	s.Emit(phase, "Error", ErrorData{
		Type:    kind,
		Message: err.Error(),
		Context: context,
	})
}

// Close flushes and closes the debug session.
// This should be called when the build completes.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	// Emit session end event
	elapsed := time.Since(s.startTime).Milliseconds()
	s.Emit("session", "End", map[string]int64{
		"elapsed_ms": elapsed,
	})

	return s.sink.Close()
}

// generateSessionID creates a unique session identifier.
func generateSessionID() string {
	b := make([]byte, 4)
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to time-based ID if crypto/rand fails
		return hex.EncodeToString([]byte{
			byte(time.Now().UnixNano() >> 24),
			byte(time.Now().UnixNano() >> 16),
			byte(time.Now().UnixNano() >> 8),
			byte(time.Now().UnixNano()),
		})
	}
	return hex.EncodeToString(b)
}

// Event is the base envelope for all debug events.
type Event struct {
	Timestamp string      `json:"ts"`
	SessionID string      `json:"session_id"`
	Phase     string      `json:"phase"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
}
