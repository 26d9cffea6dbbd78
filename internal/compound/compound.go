// Package compound parses compound-character declarations.
//
// Each line of a compound map declares a codepoint or an inclusive codepoint
// range and the text it stands for:
//
//	[E01C]=meow
//	[E01C-E01F]=¹⁸
//
// Codepoints are hexadecimal (case-insensitive) and must be Unicode scalar
// values. The text is the rest of the line and may be empty. A range whose
// end lies below its start is well formed and covers no codepoints.
package compound

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ryanlewis/sctables/internal/common"
)

// Range is one parsed declaration: every codepoint from First to Last
// inclusive maps to Text.
type Range struct {
	First rune
	Last  rune
	Text  string
}

// Surrogate halves are not scalar values and are never map keys.
const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// Len returns the number of scalar values covered by the range. A range whose
// last endpoint is below its first covers nothing.
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	n := int(r.Last-r.First) + 1
	if lo, hi := max(r.First, surrogateMin), min(r.Last, surrogateMax); lo <= hi {
		n -= int(hi-lo) + 1
	}
	return n
}

// each calls fn for every scalar value in the range, in ascending order.
func (r Range) each(fn func(rune)) {
	for cp := r.First; cp <= r.Last; cp++ {
		if cp >= surrogateMin && cp <= surrogateMax {
			cp = surrogateMax
			continue
		}
		fn(cp)
	}
}

// ParseError reports the first line of a compound map that failed to parse.
type ParseError struct {
	Line int    // 1-based line number
	Text string // Offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseLine parses a single declaration of the form [HEX]=TEXT or
// [HEX-HEX]=TEXT.
func ParseLine(line string) (Range, error) {
	rest, ok := strings.CutPrefix(line, "[")
	if !ok {
		return Range{}, fmt.Errorf("%w: expected '['", common.ErrBadDeclaration)
	}

	end := strings.IndexAny(rest, "-]")
	if end < 0 {
		return Range{}, fmt.Errorf("%w: unterminated range", common.ErrBadDeclaration)
	}
	first, err := parseCodepoint(rest[:end])
	if err != nil {
		return Range{}, err
	}
	rest = rest[end:]

	last := first
	if after, ok := strings.CutPrefix(rest, "-"); ok {
		end = strings.IndexAny(after, "-]")
		if end < 0 {
			return Range{}, fmt.Errorf("%w: unterminated range", common.ErrBadDeclaration)
		}
		if last, err = parseCodepoint(after[:end]); err != nil {
			return Range{}, err
		}
		rest = after[end:]
	}

	rest, ok = strings.CutPrefix(rest, "]")
	if !ok {
		return Range{}, fmt.Errorf("%w: expected ']'", common.ErrBadDeclaration)
	}
	text, ok := strings.CutPrefix(rest, "=")
	if !ok {
		return Range{}, fmt.Errorf("%w: expected '='", common.ErrBadDeclaration)
	}
	if strings.ContainsAny(text, "\r\n") {
		return Range{}, fmt.Errorf("%w: line break in text", common.ErrBadDeclaration)
	}
	return Range{First: first, Last: last, Text: text}, nil
}

// parseCodepoint parses a hex codepoint and checks it is a scalar value.
func parseCodepoint(s string) (rune, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty codepoint", common.ErrBadDeclaration)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid codepoint %q", common.ErrBadDeclaration, s)
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("%w: U+%04X is not a Unicode scalar value", common.ErrBadDeclaration, v)
	}
	return r, nil
}

// Parse parses a whole compound map. Parsing is all-or-nothing: the first
// line that is not a valid declaration fails the parse with a *ParseError.
// A CR before each LF is accepted as part of the line ending, and a single
// line break at the end of the source is allowed.
func Parse(src string) ([]Range, error) {
	if src == "" {
		return nil, nil
	}

	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	ranges := make([]Range, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		r, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// Expand flattens ranges into a per-codepoint map. Ranges are applied in
// order, so a codepoint declared more than once keeps the text of its last
// declaration. An inverted range adds nothing.
func Expand(ranges []Range) map[rune]string {
	size := 0
	for _, r := range ranges {
		size += r.Len()
	}
	m := make(map[rune]string, size)
	for _, r := range ranges {
		r.each(func(cp rune) { m[cp] = r.Text })
	}
	return m
}

// ParseMap parses src and expands it into a codepoint map.
func ParseMap(src string) (map[rune]string, error) {
	ranges, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Expand(ranges), nil
}

// Collisions returns the codepoints covered by more than one range, in
// ascending order. Expand silently keeps the last declaration for these.
func Collisions(ranges []Range) []rune {
	seen := make(map[rune]int)
	for _, r := range ranges {
		r.each(func(cp rune) { seen[cp]++ })
	}
	var dup []rune
	for cp, n := range seen {
		if n > 1 {
			dup = append(dup, cp)
		}
	}
	sort.Slice(dup, func(i, j int) bool { return dup[i] < dup[j] })
	return dup
}
