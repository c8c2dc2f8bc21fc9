// Package web embeds the built front end.
package web

import (
	"embed"
	"io/fs"
)

//go:embed dist
var dist embed.FS

// FS returns the front end with index.html at its root.
func FS() fs.FS {
	fsys, err := fs.Sub(dist, "dist")
	if err != nil {
		panic(err)
	}
	return fsys
}
