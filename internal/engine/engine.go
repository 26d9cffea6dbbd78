// Package engine holds the lookup structures that translate between text and
// a game's byte codes, built from a glyph table and a compound map.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/ryanlewis/sctables/internal/common"
)

var (
	// ErrUnencodable is returned when text contains a rune the charset lacks.
	ErrUnencodable = errors.New("unencodable rune")

	// ErrNoGlyph is returned when a byte code is out of range or names a null slot.
	ErrNoGlyph = errors.New("no glyph at byte code")
)

// MissingCodepointsError lists compound codepoints that have no slot in the
// glyph table. It indicates a packaging defect in the game's resources.
type MissingCodepointsError struct {
	Missing []rune // Ascending
}

func (e *MissingCodepointsError) Error() string {
	return fmt.Sprintf("%v: [%s]", common.ErrMissingCodepoints, FormatCodepoints(e.Missing))
}

func (e *MissingCodepointsError) Unwrap() error {
	return common.ErrMissingCodepoints
}

// FormatCodepoints renders codepoints as a comma-separated list of
// '\u{XXXX}' escapes.
func FormatCodepoints(rs []rune) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf(`'\u{%04X}'`, r)
	}
	return strings.Join(parts, ", ")
}

// Maps is the immutable encoding state for one game.
// It is safe for concurrent use.
type Maps struct {
	charset   []rune
	index     map[rune]int
	compounds map[rune]string
	texts     []compoundText // Longest text first
	noWiden   map[rune]struct{}
}

type compoundText struct {
	text string
	r    rune
}

// New validates charset against compounds and builds the lookup maps.
// Every compound codepoint must occupy a non-null slot of charset; otherwise
// New returns a *MissingCodepointsError naming all of them.
// Runes in fullwidthExclusions are left alone by Widen.
func New(charset []rune, compounds map[rune]string, fullwidthExclusions []rune) (*Maps, error) {
	index := make(map[rune]int, len(charset))
	for code, r := range charset {
		if r == common.NullGlyph {
			continue
		}
		if _, dup := index[r]; !dup {
			index[r] = code
		}
	}

	var missing []rune
	for r := range compounds {
		if _, ok := index[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &MissingCodepointsError{Missing: missing}
	}

	texts := make([]compoundText, 0, len(compounds))
	for r, text := range compounds {
		if text != "" {
			texts = append(texts, compoundText{text: text, r: r})
		}
	}
	sort.Slice(texts, func(i, j int) bool {
		if len(texts[i].text) != len(texts[j].text) {
			return len(texts[i].text) > len(texts[j].text)
		}
		return texts[i].r < texts[j].r
	})

	noWiden := make(map[rune]struct{}, len(fullwidthExclusions))
	for _, r := range fullwidthExclusions {
		noWiden[r] = struct{}{}
	}

	return &Maps{
		charset:   charset,
		index:     index,
		compounds: compounds,
		texts:     texts,
		noWiden:   noWiden,
	}, nil
}

// Code returns the byte code of the first slot holding r.
func (m *Maps) Code(r rune) (int, bool) {
	code, ok := m.index[r]
	return code, ok
}

// Glyph returns the glyph at code, or false if the slot is out of range or null.
func (m *Maps) Glyph(code int) (rune, bool) {
	if code < 0 || code >= len(m.charset) || m.charset[code] == common.NullGlyph {
		return 0, false
	}
	return m.charset[code], true
}

// Widen replaces each rune that has a fullwidth variant with that variant,
// except for the runes in the exclusion set.
func (m *Maps) Widen(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, skip := m.noWiden[r]; !skip {
			if w := width.LookupRune(r).Wide(); w != 0 {
				r = w
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Encode converts s to byte codes. Compound texts are matched first, longest
// first; remaining runes are looked up in their fullwidth form and then as
// written. All runes without a slot are reported in one error.
func (m *Maps) Encode(s string) ([]int, error) {
	codes := make([]int, 0, len(s))
	var bad []rune

	for len(s) > 0 {
		if r, n := m.matchCompound(s); n > 0 {
			codes = append(codes, m.index[r])
			s = s[n:]
			continue
		}

		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if code, ok := m.lookupWide(r); ok {
			codes = append(codes, code)
			continue
		}
		bad = append(bad, r)
	}

	if len(bad) > 0 {
		return codes, fmt.Errorf("%w: %q", ErrUnencodable, string(bad))
	}
	return codes, nil
}

// Decode converts byte codes back to text, expanding compound glyphs.
func (m *Maps) Decode(codes []int) (string, error) {
	var b strings.Builder
	for _, code := range codes {
		r, ok := m.Glyph(code)
		if !ok {
			return b.String(), fmt.Errorf("%w 0x%04X", ErrNoGlyph, code)
		}
		if text, ok := m.compounds[r]; ok {
			b.WriteString(text)
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func (m *Maps) matchCompound(s string) (rune, int) {
	for _, c := range m.texts {
		if strings.HasPrefix(s, c.text) {
			return c.r, len(c.text)
		}
	}
	return 0, 0
}

func (m *Maps) lookupWide(r rune) (int, bool) {
	if _, skip := m.noWiden[r]; !skip {
		if w := width.LookupRune(r).Wide(); w != 0 {
			if code, ok := m.index[w]; ok {
				return code, true
			}
		}
	}
	return m.Code(r)
}
