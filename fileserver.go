package isoserve

import (
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/pkg/errors"
)

const indexPage = "/index.html"

type fileServer struct {
	root  http.FileSystem
	files http.Handler
}

// FileServer serves the files under root, mostly by deferring to http.FileServer.
//
// It differs in two places: only GET and HEAD are allowed, and a request for
// /index.html gets the file rather than a redirect to "./".
func FileServer(root http.FileSystem) http.Handler {
	return &fileServer{root: root, files: http.FileServer(root)}
}

func (s *fileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, fmt.Sprintf("Unsupported method (%q)", r.Method), http.StatusNotImplemented)
		return
	}
	if strings.HasSuffix(r.URL.Path, indexPage) {
		s.serveIndexPage(w, r)
		return
	}
	s.files.ServeHTTP(w, r)
}

func (s *fileServer) serveIndexPage(w http.ResponseWriter, r *http.Request) {
	f, err := s.root.Open(path.Clean("/" + r.URL.Path))
	if err != nil {
		fileError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fileError(w, err)
		return
	}
	if info.IsDir() {
		// Someone made a directory called index.html. Treat it like any other
		// directory, which means it needs a trailing slash.
		target := path.Base(r.URL.Path) + "/"
		if q := r.URL.RawQuery; q != "" {
			target += "?" + q
		}
		w.Header().Set("Location", target)
		w.WriteHeader(http.StatusMovedPermanently)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// Same status codes and messages that http.FileServer uses
func fileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "404 page not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}
