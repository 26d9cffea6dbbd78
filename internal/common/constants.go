// Package common provides shared constants and types for internal packages.
// These constants must match the public API in the sctables package.
package common

import "errors"

// Glyph table layout
const (
	// RowWidth is the number of slots in one row of a glyph table
	RowWidth = 64
	// NullGlyph marks an unused slot in a glyph table
	NullGlyph = '\x00'
)

// Resource file names inside each game's resource folder
const (
	CharsetFile  = "charset.utf8"
	CompoundFile = "compound_chars.map"
)

// Private Use Area bounds (Basic Multilingual Plane block)
const (
	PUAFirst = '\uE000'
	PUALast  = '\uF8FF'
)

// Common errors (must match public API in sctables package)
var (
	// ErrMissingResource is returned when a resource file is absent
	ErrMissingResource = errors.New("missing resource")
	// ErrBadDeclaration is returned when a compound declaration does not match the grammar
	ErrBadDeclaration = errors.New("bad compound declaration")
	// ErrMissingCodepoints is returned when compound codepoints are absent from the glyph table
	ErrMissingCodepoints = errors.New("compound codepoints missing from charset")
)
