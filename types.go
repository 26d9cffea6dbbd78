package sctables

import (
	"errors"
	"fmt"

	"github.com/ryanlewis/sctables/internal/common"
	"github.com/ryanlewis/sctables/internal/engine"
)

// Game identifies a supported title.
type Game int

// Supported titles, in catalog order.
const (
	SteinsGateHD Game = iota + 1
	SteinsGateHDZhs
	RoboticsNotes
	SteinsGatePhenogram
	SteinsGate0
	SteinsGate0Zhs
	RoboticsNotesDash
)

var gameNames = [...]string{
	SteinsGateHD:        "SteinsGateHD",
	SteinsGateHDZhs:     "SteinsGateHDZhs",
	RoboticsNotes:       "RoboticsNotes",
	SteinsGatePhenogram: "SteinsGatePhenogram",
	SteinsGate0:         "SteinsGate0",
	SteinsGate0Zhs:      "SteinsGate0Zhs",
	RoboticsNotesDash:   "RoboticsNotesDash",
}

func (g Game) String() string {
	if g > 0 && int(g) < len(gameNames) {
		return gameNames[g]
	}
	return fmt.Sprintf("Game(%d)", int(g))
}

// Reserved is an inclusive codepoint range a title sets aside. It is carried
// as metadata only; nothing in this package interprets it.
type Reserved struct {
	First rune
	Last  rune
}

// Contains reports whether r lies within the range.
func (r Reserved) Contains(c rune) bool {
	return c >= r.First && c <= r.Last
}

func (r Reserved) String() string {
	return fmt.Sprintf("U+%04X-U+%04X", r.First, r.Last)
}

// Def is the static description of a title from which a Profile is built.
type Def struct {
	Game Game

	// Name is the display name, e.g. "Steins;Gate 0"
	Name string

	// Dir is the resource folder holding charset.utf8 and compound_chars.map
	Dir string

	// Aliases are the exact, case-sensitive strings users may select the title by
	Aliases []string

	// Reserved is an optional reserved codepoint range (nil if none)
	Reserved *Reserved

	// FullwidthExclusions are runes the encoder must not widen
	FullwidthExclusions []rune
}

// Maps translates between text and a title's byte codes.
type Maps = engine.Maps

// MissingCodepointsError lists compound codepoints that have no slot in a
// title's glyph table. Use errors.As on a profile build error to obtain it.
type MissingCodepointsError = engine.MissingCodepointsError

// Common errors returned by the sctables package
var (
	// ErrUnknownGame is returned when a Game id is not in the catalog
	ErrUnknownGame = errors.New("unknown game")

	// ErrUnknownAlias is returned when no profile carries the requested alias
	ErrUnknownAlias = errors.New("unknown game alias")

	// ErrMissingResource is returned when a title's resource file is absent
	ErrMissingResource = common.ErrMissingResource

	// ErrBadDeclaration is returned when a compound map line does not match the grammar
	ErrBadDeclaration = common.ErrBadDeclaration

	// ErrUnencodable is returned when text contains a rune a title's charset lacks
	ErrUnencodable = engine.ErrUnencodable

	// ErrNoGlyph is returned when a byte code names no glyph
	ErrNoGlyph = engine.ErrNoGlyph

	// ErrMissingCodepoints is returned when compound codepoints are absent from the glyph table
	ErrMissingCodepoints = common.ErrMissingCodepoints
)

// ResourceError reports a resource file that could not be read.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrMissingResource, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() []error {
	return []error{ErrMissingResource, e.Err}
}

// ProfileError reports a title whose profile could not be built.
type ProfileError struct {
	Game Game
	Name string
	Err  error
}

func (e *ProfileError) Error() string {
	var mce *MissingCodepointsError
	if errors.As(e.Err, &mce) {
		return fmt.Sprintf("error while constructing encoding maps for %s. "+
			"The following Private Use Area characters were not found in the charset: [%s]",
			e.Name, engine.FormatCodepoints(mce.Missing))
	}
	return fmt.Sprintf("build profile for %s: %v", e.Name, e.Err)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}
