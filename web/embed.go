// Package web embeds the admin console's templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates all:static
var files embed.FS

// TemplateFS holds templates/layouts and templates/pages.
var TemplateFS fs.FS = files

// Static returns the stylesheet and icons rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		// Unreachable: the directory is embedded above.
		panic(err)
	}
	return sub
}
