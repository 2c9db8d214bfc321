package isoserve

import (
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"
)

type Header struct {
	Name  string
	Value string
}

// The headers that opt a page into cross-origin isolation (which is what unlocks
// SharedArrayBuffer in browsers). Both have to be present for it to work.
var IsolationHeaders = []Header{
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Embedder-Policy", "require-corp"},
}

func setIsolationHeaders(h http.Header) {
	for _, header := range IsolationHeaders {
		h.Set(header.Name, header.Value)
	}
}

// IsolationHeaderMiddleware adds IsolationHeaders to every response from h.
//
// Setting the headers up front isn't enough on its own: http.Error and friends are
// allowed to mess with the header map on the way out. So we also set them again at
// each point where the headers could actually get sent.
func IsolationHeaderMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		setIsolationHeaders(header)

		var wrapped http.ResponseWriter
		wroteHeader := false
		finalize := func() {
			if !wroteHeader {
				setIsolationHeaders(header)
				wroteHeader = true
			}
		}
		hooks := httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					// 1xx responses don't commit the header map
					if code >= 200 {
						finalize()
					}
					next(code)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					finalize()
					return next(b)
				}
			},
			// Calling next here would go straight to the connection, skipping any
			// Write hooks further out (like the access log's byte count). So copy
			// through our own Write instead.
			ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
				return func(src io.Reader) (int64, error) {
					finalize()
					return io.Copy(writerOnly{wrapped}, src)
				}
			},
			Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
				return func() {
					finalize()
					next()
				}
			},
		}
		wrapped = httpsnoop.Wrap(w, hooks)
		h.ServeHTTP(wrapped, r)
		// h might have deleted the headers and then written nothing, in which case
		// net/http sends an implicit 200 with whatever is left in the map.
		finalize()
	})
}

// Hides ReadFrom so that io.Copy goes through Write
type writerOnly struct {
	io.Writer
}
