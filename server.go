package isoserve

import (
	"io"
	"net"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"golang.org/x/net/netutil"
)

const (
	// Where the server listens. Deliberately not configurable.
	Addr = "127.0.0.1:8000"
	// What we tell people to open in their browser
	URL = "http://localhost:8000"
)

// Listen binds addr. The returned listener hands out one connection at a time:
// Accept blocks until the previous connection has been closed.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't listen on %s", addr)
	}
	return netutil.LimitListener(ln, 1), nil
}

type Server struct {
	// The directory to serve files from
	Root string
	// Gets one line per request, in Apache Common Log Format. Nil means no logging.
	AccessLog io.Writer
}

func (s *Server) Handler() http.Handler {
	accessLog := s.AccessLog
	if accessLog == nil {
		accessLog = io.Discard
	}
	files := FileServer(http.Dir(s.Root))
	return handlers.LoggingHandler(accessLog, IsolationHeaderMiddleware(files))
}

// Serve handles requests on ln until ln is closed. It always returns a non-nil
// error.
//
// Keep-alives are off so that each connection carries exactly one request. Together
// with Listen that means requests get handled strictly one after the other, and one
// client can't hold onto the server between requests.
func (s *Server) Serve(ln net.Listener) error {
	server := &http.Server{Handler: s.Handler()}
	server.SetKeepAlivesEnabled(false)
	return server.Serve(ln)
}
