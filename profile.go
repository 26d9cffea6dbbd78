package sctables

import (
	"fmt"
	"io/fs"

	"github.com/ryanlewis/sctables/internal/charset"
	"github.com/ryanlewis/sctables/internal/common"
	"github.com/ryanlewis/sctables/internal/compound"
	"github.com/ryanlewis/sctables/internal/debug"
	"github.com/ryanlewis/sctables/internal/engine"
)

// Profile is the immutable, fully built description of one title.
// It is safe for concurrent use across goroutines.
type Profile struct {
	def       Def
	charset   []rune
	compounds map[rune]string
	maps      *engine.Maps
}

// Option configures how profiles and catalogs are built.
type Option func(*options)

type options struct {
	session *debug.Session
}

// WithDebug traces the build into session. A nil session disables tracing.
func WithDebug(session *debug.Session) Option {
	return func(opts *options) {
		opts.session = session
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewProfile loads def's resources from fsys and builds its profile.
//
// The glyph list is laid out into a table of 64-slot rows and the compound
// map is parsed and expanded; then the encoder maps are built from both.
// Missing resources, a malformed compound map, or compound codepoints absent
// from the table all fail the build with a *ProfileError.
func NewProfile(fsys fs.FS, def Def, opts ...Option) (*Profile, error) {
	return newProfile(fsys, def, buildOptions(opts))
}

// MustProfile is like NewProfile but panics if the profile cannot be built.
// Resources bundled with the program can only fail through a packaging defect.
func MustProfile(fsys fs.FS, def Def, opts ...Option) *Profile {
	p, err := NewProfile(fsys, def, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func newProfile(fsys fs.FS, def Def, o *options) (*Profile, error) {
	s := o.session
	fail := func(kind string, err error, path string) (*Profile, error) {
		s.Error("profile", kind, err, map[string]interface{}{
			"game": def.Game.String(),
			"path": path,
		})
		return nil, &ProfileError{Game: def.Game, Name: def.Name, Err: err}
	}

	src, p, err := readResource(fsys, def.Dir, common.CharsetFile)
	if err != nil {
		return fail("missing_resource", err, p)
	}
	table := charset.BuildDefault(src)
	if s != nil {
		stats := charset.Summarize(table)
		s.Emit("table", "Built", debug.TableData{
			Dir:       def.Dir,
			Rows:      stats.Rows,
			Slots:     stats.Slots,
			Populated: stats.Populated,
			Classes:   debug.ClassifyTable(table),
		})
	}

	src, p, err = readResource(fsys, def.Dir, common.CompoundFile)
	if err != nil {
		return fail("missing_resource", err, p)
	}
	ranges, err := compound.Parse(src)
	if err != nil {
		return fail("bad_declaration", fmt.Errorf("%s: %w", p, err), p)
	}
	compounds := compound.Expand(ranges)
	if s != nil {
		s.Emit("compound", "Expanded", debug.CompoundData{
			Dir:          def.Dir,
			Declarations: len(ranges),
			Codepoints:   len(compounds),
			Collisions:   formatRunes(compound.Collisions(ranges)),
		})
	}

	maps, err := engine.New(table, compounds, def.FullwidthExclusions)
	if err != nil {
		return fail("missing_codepoints", err, "")
	}

	prof := &Profile{
		def:       def,
		charset:   table,
		compounds: compounds,
		maps:      maps,
	}
	s.Emit("profile", "Built", prof.debugData())
	return prof, nil
}

func (p *Profile) debugData() debug.ProfileData {
	d := debug.ProfileData{
		Game:       p.def.Game.String(),
		Name:       p.def.Name,
		Dir:        p.def.Dir,
		Aliases:    p.def.Aliases,
		Exclusions: string(p.def.FullwidthExclusions),
	}
	if p.def.Reserved != nil {
		d.Reserved = p.def.Reserved.String()
	}
	return d
}

func formatRunes(rs []rune) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = fmt.Sprintf("%U", r)
	}
	return out
}

// Game returns the title's canonical id.
func (p *Profile) Game() Game { return p.def.Game }

// Name returns the display name.
func (p *Profile) Name() string { return p.def.Name }

// Dir returns the resource folder the profile was built from.
func (p *Profile) Dir() string { return p.def.Dir }

// Aliases returns the strings the title can be selected by.
// The returned slice should not be modified by the caller.
func (p *Profile) Aliases() []string { return p.def.Aliases }

// HasAlias reports whether alias is one of the profile's aliases (case-sensitive).
func (p *Profile) HasAlias(alias string) bool {
	for _, a := range p.def.Aliases {
		if a == alias {
			return true
		}
	}
	return false
}

// Reserved returns the reserved codepoint range, if the title declares one.
func (p *Profile) Reserved() (Reserved, bool) {
	if p.def.Reserved == nil {
		return Reserved{}, false
	}
	return *p.def.Reserved, true
}

// Charset returns the glyph table. Index i holds the glyph for byte code i;
// unused slots hold '\x00'. The length is a multiple of 64.
// The returned slice should not be modified by the caller.
func (p *Profile) Charset() []rune { return p.charset }

// Glyph returns the glyph for a byte code, or false if the slot is empty.
func (p *Profile) Glyph(code int) (rune, bool) {
	return p.maps.Glyph(code)
}

// Compounds returns the compound map from PUA codepoint to the text it stands for.
// The returned map should not be modified by the caller.
func (p *Profile) Compounds() map[rune]string { return p.compounds }

// Compound returns the text a compound glyph stands for.
func (p *Profile) Compound(r rune) (string, bool) {
	text, ok := p.compounds[r]
	return text, ok
}

// FullwidthExclusions returns the runes the encoder leaves narrow.
// The returned slice should not be modified by the caller.
func (p *Profile) FullwidthExclusions() []rune { return p.def.FullwidthExclusions }

// Maps returns the encoder maps built from the glyph table and compound map.
func (p *Profile) Maps() *Maps { return p.maps }
