package sctables

import (
	"embed"
	"io/fs"
)

//go:embed resources
var embedded embed.FS

// Resources returns the embedded resource tree, rooted so that each title's
// folder (e.g. "sg0") is a top-level directory.
func Resources() fs.FS {
	sub, err := fs.Sub(embedded, "resources")
	if err != nil {
		panic(err)
	}
	return sub
}
