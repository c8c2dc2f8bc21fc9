package chiext

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

type StaticFSConfig struct {
	FileSystem fs.FS
	Root       string
	// SPA serves index.html for GET requests that match no file so the front end can route them.
	SPA bool
	// Passthrough lists path prefixes that are never answered with index.html.
	Passthrough []string
	Redirect    func(r *http.Request) bool
}

// StaticEmbedFS adds GET handlers for all files and folders using the given filesystem.
func StaticEmbedFS(config StaticFSConfig) func(next http.Handler) http.Handler {
	if config.Redirect == nil {
		if config.SPA {
			config.Redirect = spaRedirect(config.Passthrough)
		} else {
			config.Redirect = func(r *http.Request) bool { return false }
		}
	}
	if config.Root != "" {
		fsys, err := fs.Sub(config.FileSystem, config.Root)
		if err != nil {
			panic(err)
		}
		config.FileSystem = fsys
	}

	fsHandler := http.StripPrefix("/", http.FileServer(http.FS(config.FileSystem)))
	indexHandler := func(w http.ResponseWriter, r *http.Request) {
		index, err := http.FS(config.FileSystem).Open("/index.html")
		if err != nil {
			http.Error(w, "index.html not found", http.StatusNotFound)
			return
		}
		defer index.Close()

		stat, err := index.Stat()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		http.ServeContent(w, r, "index.html", stat.ModTime(), index)
	}

	files, err := fs.ReadDir(config.FileSystem, ".")
	if err != nil {
		panic(err)
	}

	routes := []string{}
	for _, f := range files {
		routes = append(routes, "/"+f.Name())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			if r.URL.Path == "/" {
				indexHandler(w, r)
				return
			}
			for _, route := range routes {
				if strings.HasPrefix(r.URL.Path, route) {
					if r.URL.Path == "/index.html" {
						indexHandler(w, r)
						return
					}

					fsHandler.ServeHTTP(w, r)
					return
				}
			}

			if config.Redirect(r) {
				r.URL.Path = "/"
				indexHandler(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func spaRedirect(passthrough []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		for _, prefix := range passthrough {
			if strings.HasPrefix(r.URL.Path, prefix) {
				return false
			}
		}
		return path.Ext(r.URL.Path) == ""
	}
}
