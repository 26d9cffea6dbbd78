// Command sctables inspects the glyph tables and compound maps bundled for
// each supported game.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/ryanlewis/sctables"
	"github.com/ryanlewis/sctables/internal/charset"
	"github.com/ryanlewis/sctables/internal/debug"
	"github.com/spf13/pflag"
	"golang.org/x/text/unicode/runenames"
	"gopkg.in/yaml.v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		showVersion   bool
		showHelp      bool
		listGames     bool
		dumpTable     bool
		dumpCompounds bool
		format        string
		encodeText    string
		codeArg       string
		glyphArg      string
		debugMode     bool
		debugFile     string
		debugPretty   bool
	)

	flags := pflag.NewFlagSet("sctables", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flags.BoolVarP(&showHelp, "help", "h", false, "Show help message")
	flags.BoolVarP(&listGames, "list", "l", false, "List supported games")
	flags.BoolVarP(&dumpTable, "table", "t", false, "Dump every populated glyph slot")
	flags.BoolVarP(&dumpCompounds, "compounds", "c", false, "Dump the compound map")
	flags.StringVarP(&format, "format", "o", "text", "Output format: text, json or yaml")
	flags.StringVarP(&encodeText, "encode", "e", "", "Print the byte codes for TEXT")
	flags.StringVar(&codeArg, "code", "", "Print the glyph at byte code N (decimal or 0x hex)")
	flags.StringVarP(&glyphArg, "glyph", "g", "", "Print the byte code of a rune")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug mode (outputs to stderr)")
	flags.StringVar(&debugFile, "debug-file", "", "Write debug output to file instead of stderr")
	flags.BoolVar(&debugPretty, "debug-pretty", false, "Use pretty format for debug output (default: JSON)")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if showHelp {
		printHelp(stdout, flags)
		return 0
	}

	if showVersion {
		fmt.Fprintf(stdout, "sctables version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	switch format {
	case "text", "json", "yaml":
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", format)
		return 1
	}

	rest := flags.Args()
	if len(rest) > 1 {
		fmt.Fprintln(stderr, "Error: expected at most one game alias")
		printHelp(stderr, flags)
		return 1
	}

	// Setup debug if enabled
	var session *debug.Session
	debug.InitFromEnv()
	if debugMode || debugFile != "" || debug.Enabled() {
		debug.SetEnabled(true)

		var output io.Writer = stderr
		if debugFile != "" {
			file, err := os.Create(debugFile)
			if err != nil {
				fmt.Fprintf(stderr, "Error creating debug file: %v\n", err)
				return 1
			}
			defer file.Close()
			output = file
		}

		var sink debug.Sink
		if debugPretty || debug.PrettyFromEnv() {
			sink = debug.NewPrettySink(output)
		} else {
			sink = debug.NewJSONSink(output)
		}

		session = debug.NewSession(sink)
		defer session.Close()
	}

	catalog, err := sctables.Load(sctables.Resources(), sctables.Definitions(), sctables.WithDebug(session))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading games: %v\n", err)
		return 1
	}

	if listGames || len(rest) == 0 {
		if err := writeList(stdout, format, catalog); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	alias := rest[0]
	p, ok := catalog.ByAlias(alias)
	if !ok {
		fmt.Fprintf(stderr, "Error: %v: %q (known: %s)\n",
			sctables.ErrUnknownAlias, alias, strings.Join(catalog.Aliases(), ", "))
		return 1
	}

	switch {
	case encodeText != "":
		codes, err := p.Maps().Encode(encodeText)
		if err != nil {
			fmt.Fprintf(stderr, "Error encoding text: %v\n", err)
			return 1
		}
		hex := make([]string, len(codes))
		for i, c := range codes {
			hex[i] = fmt.Sprintf("0x%04X", c)
		}
		fmt.Fprintln(stdout, strings.Join(hex, " "))
		return 0

	case codeArg != "":
		code, err := strconv.ParseInt(codeArg, 0, 32)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing byte code: %v\n", err)
			return 1
		}
		r, ok := p.Glyph(int(code))
		if !ok {
			fmt.Fprintf(stderr, "Error: %v 0x%04X\n", sctables.ErrNoGlyph, code)
			return 1
		}
		fmt.Fprintln(stdout, describeGlyph(p, int(code), r))
		return 0

	case glyphArg != "":
		r, err := parseRune(glyphArg)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing glyph: %v\n", err)
			return 1
		}
		code, ok := p.Maps().Code(r)
		if !ok {
			if res, has := p.Reserved(); has && res.Contains(r) {
				fmt.Fprintf(stderr, "Error: %U lies in the range %s reserved by %s and has no glyph\n", r, res, p.Name())
				return 1
			}
			fmt.Fprintf(stderr, "Error: %U is not in the %s charset\n", r, p.Name())
			return 1
		}
		fmt.Fprintln(stdout, describeGlyph(p, code, r))
		return 0
	}

	if err := writeProfile(stdout, format, newProfileReport(p, dumpTable, dumpCompounds)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type gameEntry struct {
	Game    string   `json:"game" yaml:"game"`
	Name    string   `json:"name" yaml:"name"`
	Dir     string   `json:"dir" yaml:"dir"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

type slotEntry struct {
	Code     int    `json:"code" yaml:"code"`
	Rune     string `json:"rune" yaml:"rune"`
	Glyph    string `json:"glyph" yaml:"glyph"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Reserved bool   `json:"reserved,omitempty" yaml:"reserved,omitempty"`
}

type compoundEntry struct {
	Codepoint string `json:"codepoint" yaml:"codepoint"`
	Text      string `json:"text" yaml:"text"`
}

type profileReport struct {
	gameEntry  `yaml:",inline"`
	Reserved   string          `json:"reserved,omitempty" yaml:"reserved,omitempty"`
	InReserved int             `json:"reserved_glyphs,omitempty" yaml:"reserved_glyphs,omitempty"`
	Exclusions string          `json:"fullwidth_exclusions" yaml:"fullwidth_exclusions"`
	Rows       int             `json:"rows" yaml:"rows"`
	Slots      int             `json:"slots" yaml:"slots"`
	Populated  int             `json:"populated" yaml:"populated"`
	Compounds  int             `json:"compounds" yaml:"compounds"`
	Table      []slotEntry     `json:"table,omitempty" yaml:"table,omitempty"`
	Map        []compoundEntry `json:"compound_map,omitempty" yaml:"compound_map,omitempty"`
}

func newGameEntry(p *sctables.Profile) gameEntry {
	return gameEntry{
		Game:    p.Game().String(),
		Name:    p.Name(),
		Dir:     p.Dir(),
		Aliases: p.Aliases(),
	}
}

func newProfileReport(p *sctables.Profile, withTable, withCompounds bool) profileReport {
	stats := charset.Summarize(p.Charset())
	rep := profileReport{
		gameEntry:  newGameEntry(p),
		Exclusions: string(p.FullwidthExclusions()),
		Rows:       stats.Rows,
		Slots:      stats.Slots,
		Populated:  stats.Populated,
		Compounds:  len(p.Compounds()),
	}
	res, hasReserved := p.Reserved()
	if hasReserved {
		rep.Reserved = res.String()
	}

	for code, r := range p.Charset() {
		if _, ok := p.Glyph(code); !ok {
			continue
		}
		reserved := hasReserved && res.Contains(r)
		if reserved {
			rep.InReserved++
		}
		if withTable {
			rep.Table = append(rep.Table, slotEntry{
				Code:     code,
				Rune:     fmt.Sprintf("%U", r),
				Glyph:    string(r),
				Name:     runenames.Name(r),
				Reserved: reserved,
			})
		}
	}

	if withCompounds {
		keys := make([]rune, 0, len(p.Compounds()))
		for r := range p.Compounds() {
			keys = append(keys, r)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, r := range keys {
			text, _ := p.Compound(r)
			rep.Map = append(rep.Map, compoundEntry{Codepoint: fmt.Sprintf("%U", r), Text: text})
		}
	}
	return rep
}

func writeList(w io.Writer, format string, c *sctables.Catalog) error {
	entries := make([]gameEntry, 0, c.Len())
	for _, p := range c.Profiles() {
		entries = append(entries, newGameEntry(p))
	}
	if format != "text" {
		return encode(w, format, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tDIR\tNAME\tALIASES")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Game, e.Dir, e.Name, strings.Join(e.Aliases, ", "))
	}
	return tw.Flush()
}

func writeProfile(w io.Writer, format string, rep profileReport) error {
	if format != "text" {
		return encode(w, format, rep)
	}

	fmt.Fprintf(w, "%s (%s)\n", rep.Name, rep.Game)
	fmt.Fprintf(w, "  dir:        %s\n", rep.Dir)
	fmt.Fprintf(w, "  aliases:    %s\n", strings.Join(rep.Aliases, ", "))
	fmt.Fprintf(w, "  rows:       %d (%d slots, %d populated)\n", rep.Rows, rep.Slots, rep.Populated)
	fmt.Fprintf(w, "  compounds:  %d\n", rep.Compounds)
	fmt.Fprintf(w, "  narrow:     %q\n", rep.Exclusions)
	if rep.Reserved != "" {
		fmt.Fprintf(w, "  reserved:   %s (%d glyphs in table)\n", rep.Reserved, rep.InReserved)
	}

	if len(rep.Table) > 0 {
		fmt.Fprintln(w)
		for _, s := range rep.Table {
			line := fmt.Sprintf("0x%04X %s %q %s", s.Code, s.Rune, s.Glyph, s.Name)
			if s.Reserved {
				line += " [reserved]"
			}
			fmt.Fprintln(w, line)
		}
	}
	if len(rep.Map) > 0 {
		fmt.Fprintln(w)
		for _, c := range rep.Map {
			fmt.Fprintf(w, "%s %q\n", c.Codepoint, c.Text)
		}
	}
	return nil
}

func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.New("unknown format: " + format)
}

func describeGlyph(p *sctables.Profile, code int, r rune) string {
	s := fmt.Sprintf("0x%04X %U %q", code, r, r)
	if text, ok := p.Compound(r); ok {
		return s + fmt.Sprintf(" -> %q", text)
	}
	if name := runenames.Name(r); name != "" {
		s += " " + name
	}
	return s
}

// parseRune parses a rune flag value which can be in various formats:
// - Literal character (e.g., "Ａ", "?")
// - Escaped Unicode: "\uXXXX", "\UXXXXXXXX"
// - Unicode notation: "U+XXXX"
// - Decimal: "63"
// - Hexadecimal: "0x3F"
func parseRune(s string) (rune, error) {
	if s == "" {
		return 0, fmt.Errorf("rune cannot be empty")
	}

	// Try literal character first (single rune)
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}

	if r, ok := parseEscapedUnicode(s); ok {
		return r, nil
	}
	if r, ok := parseUnicodeNotation(s); ok {
		return r, nil
	}
	if r, ok := parseHexadecimal(s); ok {
		return r, nil
	}
	if r, ok := parseDecimal(s); ok {
		return r, nil
	}

	return 0, fmt.Errorf("invalid rune format: %s", s)
}

// validateRune checks if a rune is valid UTF-8 and not a surrogate
func validateRune(r rune) (rune, bool) {
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

func parseEscapedUnicode(s string) (rune, bool) {
	// \uXXXX is exactly 6 characters, \UXXXXXXXX exactly 10
	if (strings.HasPrefix(s, "\\u") && len(s) == 6) || (strings.HasPrefix(s, "\\U") && len(s) == 10) {
		if code, err := strconv.ParseInt(s[2:], 16, 32); err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseUnicodeNotation(s string) (rune, bool) {
	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		if code, err := strconv.ParseInt(s[2:], 16, 32); err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseHexadecimal(s string) (rune, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if code, err := strconv.ParseInt(s[2:], 16, 32); err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseDecimal(s string) (rune, bool) {
	if code, err := strconv.ParseInt(s, 10, 32); err == nil {
		return validateRune(rune(code))
	}
	return 0, false
}

func printHelp(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "sctables - glyph table and compound map inspector")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sctables [flags]            list supported games")
	fmt.Fprintln(w, "  sctables [flags] <alias>    describe one game")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	flags.SetOutput(w)
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Glyph formats:")
	fmt.Fprintln(w, "  Literal: -g 'Ａ'")
	fmt.Fprintln(w, "  Unicode escape: -g '\\uE000'")
	fmt.Fprintln(w, "  Unicode notation: -g 'U+E000'")
	fmt.Fprintln(w, "  Decimal: -g '57344'")
	fmt.Fprintln(w, "  Hexadecimal: -g '0xE000'")
}
