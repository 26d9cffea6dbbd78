// Package sctables builds the glyph tables and compound-character maps that
// the text encoder of the science adventure visual novels needs.
//
// Every title ships two resources: a row-oriented glyph list whose slot
// positions are the game's byte codes, and a compound map that expands
// Private Use Area glyphs (ligatures and other multi-character glyphs) into
// text. Profiles are built once from resources embedded in the binary and are
// immutable afterwards, so they can be shared across goroutines without
// locking.
//
// Example:
//
//	p, ok := sctables.GetByAlias("sg0")
//	if !ok {
//	    log.Fatal("unknown game")
//	}
//	codes, err := p.Maps().Encode("Ｄメールを送れ")
package sctables

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// cleanFSPath validates and cleans a path for use with fs.FS.
// It ensures the path is valid according to fs.ValidPath rules and
// prevents directory traversal attacks.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	// fs.FS disallows leading slash and uses '/' only
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if strings.ContainsRune(p, '\\') {
		return "", errors.New("backslashes not allowed in fs paths")
	}
	if !fs.ValidPath(p) {
		// rejects ".", ".." segments, empty elements, etc.
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}

// readResource reads dir/name from fsys as UTF-8 text.
// Any failure is reported as a *ResourceError naming the path.
func readResource(fsys fs.FS, dir, name string) (string, string, error) {
	p := path.Join(dir, name)
	if fsys == nil {
		return "", p, &ResourceError{Path: p, Err: errors.New("filesystem cannot be nil")}
	}
	clean, err := cleanFSPath(p)
	if err != nil {
		return "", p, &ResourceError{Path: p, Err: err}
	}
	data, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return "", clean, &ResourceError{Path: clean, Err: err}
	}
	return string(data), clean, nil
}
