// Package web embeds the server-rendered templates and static assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:templates all:static
var assets embed.FS

// Templates returns the embedded template tree rooted at templates/.
func Templates() fs.FS {
	return assets
}

// StaticHandler serves the embedded static assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: failed to create static sub filesystem: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
