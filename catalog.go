package sctables

import (
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/ryanlewis/sctables/internal/debug"
)

// Definitions returns the supported titles in catalog order.
// Each call returns a fresh slice.
func Definitions() []Def {
	narrowBrackets := []rune{'\'', '-', '[', ']', '(', ')'}
	zhsReserved := Reserved{First: '\uE12F', Last: '\uE2AF'}

	return []Def{
		{
			Game:                SteinsGateHD,
			Name:                "Steins;Gate Steam",
			Dir:                 "sghd",
			Aliases:             []string{"sghd", "steinsgatehd"},
			FullwidthExclusions: narrowBrackets,
		},
		{
			Game:                SteinsGateHDZhs,
			Name:                "Steins;Gate Steam (Simplified Chinese)",
			Dir:                 "sghdzhs",
			Aliases:             []string{"sghdzhs", "steinsgatehdzhs"},
			Reserved:            &zhsReserved,
			FullwidthExclusions: []rune{'\''},
		},
		{
			Game:                RoboticsNotes,
			Name:                "Robotics;Notes",
			Dir:                 "rn",
			Aliases:             []string{"rn", "roboticsnotes"},
			FullwidthExclusions: narrowBrackets,
		},
		{
			Game:                SteinsGatePhenogram,
			Name:                "Steins;Gate: Linear Bounded Phenogram",
			Dir:                 "sglbp",
			Aliases:             []string{"sglbp", "steinsgatelbp"},
			FullwidthExclusions: narrowBrackets,
		},
		{
			Game:                SteinsGate0,
			Name:                "Steins;Gate 0",
			Dir:                 "sg0",
			Aliases:             []string{"sg0", "steinsgate0"},
			FullwidthExclusions: []rune{'\''},
		},
		{
			Game:                SteinsGate0Zhs,
			Name:                "Steins;Gate 0 (Simplified Chinese)",
			Dir:                 "sg0zhs",
			Aliases:             []string{"sg0zhs", "steinsgate0zhs"},
			Reserved:            &zhsReserved,
			FullwidthExclusions: []rune{'\''},
		},
		{
			Game:                RoboticsNotesDash,
			Name:                "Robotics;Notes DaSH",
			Dir:                 "rnd",
			Aliases:             []string{"rnd", "roboticsnotesdash"},
			FullwidthExclusions: []rune{'\''},
		},
	}
}

// Catalog is a fixed, ordered list of profiles.
// It is never modified after it is built and is safe for concurrent use.
type Catalog struct {
	profiles []*Profile
}

// Load builds a catalog from defs, reading resources from fsys.
// The first profile that fails to build aborts the load.
func Load(fsys fs.FS, defs []Def, opts ...Option) (*Catalog, error) {
	o := buildOptions(opts)
	start := time.Now()

	c := &Catalog{profiles: make([]*Profile, 0, len(defs))}
	for _, def := range defs {
		p, err := newProfile(fsys, def, o)
		if err != nil {
			return nil, err
		}
		c.profiles = append(c.profiles, p)
	}

	o.session.Emit("catalog", "Built", debug.CatalogData{
		Profiles:  len(c.profiles),
		ElapsedMs: time.Since(start).Milliseconds(),
	})
	return c, nil
}

// Profiles returns the profiles in catalog order.
func (c *Catalog) Profiles() []*Profile {
	out := make([]*Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Len returns the number of profiles.
func (c *Catalog) Len() int { return len(c.profiles) }

// Lookup returns the first profile with canonical id g.
func (c *Catalog) Lookup(g Game) (*Profile, error) {
	for _, p := range c.profiles {
		if p.def.Game == g {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownGame, g)
}

// ByID returns the profile with canonical id g. It panics if g is not in the
// catalog, which can only happen through a programming error.
func (c *Catalog) ByID(g Game) *Profile {
	p, err := c.Lookup(g)
	if err != nil {
		panic(err)
	}
	return p
}

// ByAlias returns the first profile, in catalog order, that carries alias.
// Matching is exact and case-sensitive.
func (c *Catalog) ByAlias(alias string) (*Profile, bool) {
	for _, p := range c.profiles {
		if p.HasAlias(alias) {
			return p, true
		}
	}
	return nil, false
}

// Aliases returns every alias in catalog order.
func (c *Catalog) Aliases() []string {
	var out []string
	for _, p := range c.profiles {
		out = append(out, p.def.Aliases...)
	}
	return out
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded resources.
// It is built on first use; a build failure is a packaging defect and
// panics with the build error.
//
// Setting SCTABLES_DEBUG=1 traces the build to stderr.
func Default() *Catalog {
	defaultOnce.Do(func() {
		session := envSession()
		defer session.Close()

		c, err := Load(Resources(), Definitions(), WithDebug(session))
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// envSession opens a stderr debug session when the environment asks for one.
func envSession() *debug.Session {
	debug.InitFromEnv()
	if !debug.Enabled() {
		return nil
	}
	var sink debug.Sink
	if debug.PrettyFromEnv() {
		sink = debug.NewPrettySink(os.Stderr)
	} else {
		sink = debug.NewJSONSink(os.Stderr)
	}
	return debug.NewSession(sink)
}

// Get returns the default catalog's profile for g. It panics if g is unknown.
func Get(g Game) *Profile {
	return Default().ByID(g)
}

// GetByAlias returns the default catalog's profile carrying alias.
func GetByAlias(alias string) (*Profile, bool) {
	return Default().ByAlias(alias)
}
