package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Sink is the interface for debug output destinations.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	w *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	// Format: [timestamp] [phase/event]
	fmt.Fprintf(s.w, "[%s] [%s/%s] session=%s\n", event.Timestamp, event.Phase, event.Event, event.SessionID)

	// Pretty print data based on type
	switch d := event.Data.(type) {
	case TableData:
		s.writeTable(d)
	case CompoundData:
		s.writeCompound(d)
	case ProfileData:
		s.writeProfile(d)
	case CatalogData:
		s.writeCatalog(d)
	case ErrorData:
		s.writeError(d)
	case map[string]interface{}:
		s.writeMap(d)
	case map[string]int64:
		s.writeMapInt64(d)
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeTable(d TableData) {
	fmt.Fprintf(s.w, "  dir: %s, rows: %d, slots: %d, populated: %d\n", d.Dir, d.Rows, d.Slots, d.Populated)
	classes := make([]string, 0, len(d.Classes))
	for _, k := range sortedKeys(d.Classes) {
		classes = append(classes, fmt.Sprintf("%s=%d", k, d.Classes[k]))
	}
	fmt.Fprintf(s.w, "  classes: %s\n", strings.Join(classes, " "))
}

func (s *PrettySink) writeCompound(d CompoundData) {
	fmt.Fprintf(s.w, "  dir: %s, declarations: %d, codepoints: %d\n", d.Dir, d.Declarations, d.Codepoints)
	if len(d.Collisions) > 0 {
		fmt.Fprintf(s.w, "  overwritten: %s\n", strings.Join(d.Collisions, ", "))
	}
}

func (s *PrettySink) writeProfile(d ProfileData) {
	fmt.Fprintf(s.w, "  game: %s, name: %q, dir: %s\n", d.Game, d.Name, d.Dir)
	fmt.Fprintf(s.w, "  aliases: %s\n", strings.Join(d.Aliases, ", "))
	if d.Reserved != "" {
		fmt.Fprintf(s.w, "  reserved: %s\n", d.Reserved)
	}
	fmt.Fprintf(s.w, "  fullwidth_exclusions: %q\n", d.Exclusions)
}

func (s *PrettySink) writeCatalog(d CatalogData) {
	fmt.Fprintf(s.w, "  profiles: %d, elapsed_ms: %d\n", d.Profiles, d.ElapsedMs)
}

func (s *PrettySink) writeError(d ErrorData) {
	fmt.Fprintf(s.w, "  type: %s\n", d.Type)
	fmt.Fprintf(s.w, "  message: %s\n", d.Message)
	for _, k := range sortedKeys(d.Context) {
		fmt.Fprintf(s.w, "  %s: %v\n", k, d.Context[k])
	}
}

func (s *PrettySink) writeMap(d map[string]interface{}) {
	for _, k := range sortedKeys(d) {
		fmt.Fprintf(s.w, "  %s: %v\n", k, d[k])
	}
}

func (s *PrettySink) writeMapInt64(d map[string]int64) {
	for _, k := range sortedKeys(d) {
		fmt.Fprintf(s.w, "  %s: %d\n", k, d[k])
	}
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
