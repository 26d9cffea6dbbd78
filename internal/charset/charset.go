// Package charset builds position-indexed glyph tables from row-oriented
// glyph list sources.
//
// A glyph list is written one table row per source line. Each rune occupies
// one slot; the slot index is the game's byte code for that glyph. A line
// break ends the current row, and every further consecutive line break skips
// one more slot. Spaces are alignment filler everywhere except slot 0.
package charset

import (
	"fmt"
	"strings"

	"github.com/ryanlewis/sctables/internal/common"
)

// Normalize strips carriage returns so CRLF sources lay out like LF sources.
func Normalize(src string) string {
	return strings.ReplaceAll(src, "\r", "")
}

// BuildDefault builds a table with the standard row width and null sentinel.
func BuildDefault(src string) []rune {
	return Build(Normalize(src), common.RowWidth, common.NullGlyph)
}

// Build lays out src into a glyph table.
//
// A run of n line breaks moves the output cursor up to the next multiple of
// rowWidth and then n-1 slots further. Gaps are filled with null, and a space
// at any position other than 0 is stored as null. The returned table length
// is always a multiple of rowWidth. Build panics if rowWidth is not positive.
func Build(src string, rowWidth int, null rune) []rune {
	if rowWidth <= 0 {
		panic(fmt.Sprintf("charset: invalid row width %d", rowWidth))
	}

	in := []rune(src)
	table := make([]rune, 0, alignUp(len(in), rowWidth))
	pos := 0

	for j := 0; j < len(in); {
		breaks := 0
		for j < len(in) && in[j] == '\n' {
			breaks++
			j++
		}
		if breaks > 0 {
			pos = alignUp(pos, rowWidth) + breaks - 1
		}

		for len(table) < pos {
			table = append(table, null)
		}

		if j < len(in) {
			r := in[j]
			if r == ' ' && pos != 0 {
				r = null
			}
			table = append(table, r)
		}
		pos++
		j++
	}

	for len(table)%rowWidth != 0 {
		table = append(table, null)
	}
	return table
}

// alignUp rounds n up to the next multiple of width.
func alignUp(n, width int) int {
	if rem := n % width; rem != 0 {
		return n + width - rem
	}
	return n
}

// Stats summarizes a built table.
type Stats struct {
	Rows      int // Number of rows of width common.RowWidth
	Slots     int // Total slot count
	Populated int // Slots holding a glyph other than the null sentinel
}

// Summarize reports row and population counts for a table built with the
// standard row width and null sentinel.
func Summarize(table []rune) Stats {
	s := Stats{
		Rows:  len(table) / common.RowWidth,
		Slots: len(table),
	}
	for _, r := range table {
		if r != common.NullGlyph {
			s.Populated++
		}
	}
	return s
}
