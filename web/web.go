// Package web embeds the static test page served at the catalog root.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// Handler serves the embedded test page. /test is an alias for the index so
// bookmarked links from the original deployment keep working.
func Handler() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/test" || r.URL.Path == "/test/" {
			r.URL.Path = "/"
		}
		files.ServeHTTP(w, r)
	})
}
