package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ryanlewis/sctables/internal/common"
)

// testCharset is one row: 'Ａ' 'Ｂ' '\'' 'C' '\uE000' '\uE001', rest null.
func testCharset() []rune {
	cs := make([]rune, common.RowWidth)
	copy(cs, []rune{'Ａ', 'Ｂ', '\'', 'C', '\uE000', '\uE001'})
	return cs
}

func newTestMaps(t *testing.T, exclusions []rune) *Maps {
	t.Helper()
	compounds := map[rune]string{
		'\uE000': "ab",
		'\uE001': "abc",
	}
	m, err := New(testCharset(), compounds, exclusions)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNewMissingCodepoints(t *testing.T) {
	compounds := map[rune]string{
		'\uE000': "ok",
		'\uE01F': "x",
		'\uE01C': "y",
	}
	_, err := New(testCharset(), compounds, nil)
	if err == nil {
		t.Fatal("New() should fail when compound codepoints are missing from the charset")
	}

	var mce *MissingCodepointsError
	if !errors.As(err, &mce) {
		t.Fatalf("New() error = %T, want *MissingCodepointsError", err)
	}
	want := []rune{'\uE01C', '\uE01F'}
	if diff := cmp.Diff(want, mce.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, common.ErrMissingCodepoints) {
		t.Errorf("error %v does not wrap ErrMissingCodepoints", err)
	}
	if !strings.Contains(err.Error(), `'\u{E01C}', '\u{E01F}'`) {
		t.Errorf("error message %q does not list escaped codepoints", err.Error())
	}
}

func TestNewNullSlotDoesNotSatisfyCompound(t *testing.T) {
	_, err := New(make([]rune, common.RowWidth), map[rune]string{common.NullGlyph: "x"}, nil)
	if !errors.Is(err, common.ErrMissingCodepoints) {
		t.Errorf("New() error = %v, want ErrMissingCodepoints", err)
	}
}

func TestCodeAndGlyph(t *testing.T) {
	m := newTestMaps(t, nil)

	if code, ok := m.Code('C'); !ok || code != 3 {
		t.Errorf("Code('C') = %d, %v, want 3, true", code, ok)
	}
	if _, ok := m.Code('Z'); ok {
		t.Error("Code('Z') should not be found")
	}
	if r, ok := m.Glyph(1); !ok || r != 'Ｂ' {
		t.Errorf("Glyph(1) = %q, %v, want 'Ｂ', true", r, ok)
	}
	for _, code := range []int{-1, 6, common.RowWidth} {
		if _, ok := m.Glyph(code); ok {
			t.Errorf("Glyph(%d) should not be found", code)
		}
	}
}

func TestWiden(t *testing.T) {
	m := newTestMaps(t, []rune{'\''})
	if got, want := m.Widen("AB'"), "ＡＢ'"; got != want {
		t.Errorf("Widen() = %q, want %q", got, want)
	}

	m = newTestMaps(t, nil)
	if got, want := m.Widen("A'"), "Ａ＇"; got != want {
		t.Errorf("Widen() = %q, want %q", got, want)
	}
}

func TestEncode(t *testing.T) {
	m := newTestMaps(t, []rune{'\''})

	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"narrow input finds wide glyph", "AB", []int{0, 1}},
		{"excluded rune stays narrow", "'", []int{2}},
		{"narrow glyph without wide slot", "C", []int{3}},
		{"longest compound wins", "abc", []int{5}},
		{"shorter compound", "ab", []int{4}},
		{"compound between glyphs", "AabB", []int{0, 4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Encode(tt.input)
			if err != nil {
				t.Fatalf("Encode(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Encode(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestEncodeUnencodable(t *testing.T) {
	m := newTestMaps(t, nil)
	codes, err := m.Encode("AxBy")
	if !errors.Is(err, ErrUnencodable) {
		t.Fatalf("Encode() error = %v, want ErrUnencodable", err)
	}
	if !strings.Contains(err.Error(), `"xy"`) {
		t.Errorf("error %q should name every unencodable rune", err.Error())
	}
	if diff := cmp.Diff([]int{0, 1}, codes); diff != "" {
		t.Errorf("partial codes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	m := newTestMaps(t, nil)
	got, err := m.Decode([]int{0, 4, 1, 5})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if want := "ＡabＢabc"; got != want {
		t.Errorf("Decode() = %q, want %q", got, want)
	}

	for _, codes := range [][]int{{0, 7}, {-1}, {common.RowWidth}} {
		got, err := m.Decode(codes)
		if !errors.Is(err, ErrNoGlyph) {
			t.Errorf("Decode(%v) error = %v, want ErrNoGlyph", codes, err)
		}
		if codes[0] == 0 && got != "Ａ" {
			t.Errorf("Decode(%v) partial = %q, want %q", codes, got, "Ａ")
		}
	}
}
