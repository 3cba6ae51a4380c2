// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPServer wraps http.Server with start/stop hooks suited to the
// shutdown package.
type HTTPServer struct {
	server *http.Server
	log    logrus.FieldLogger
}

type Option func(*HTTPServer)

// NewHTTPServer returns a server for handler. Read timeouts default to
// values that tolerate large uploads; the write timeout is left to the
// conversion timeout.
func NewHTTPServer(handler http.Handler, log logrus.FieldLogger, options ...Option) *HTTPServer {
	srv := &HTTPServer{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       5 * time.Minute,
			IdleTimeout:       2 * time.Minute,
		},
		log: log,
	}

	for _, opt := range options {
		opt(srv)
	}

	return srv
}

func WithAddress(address string) Option {
	return func(srv *HTTPServer) {
		srv.server.Addr = address
	}
}

func WithMiddleware(middlewares ...func(http.Handler) http.Handler) Option {
	return func(srv *HTTPServer) {
		for _, middleware := range middlewares {
			srv.server.Handler = middleware(srv.server.Handler)
		}
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(srv *HTTPServer) {
		srv.server.WriteTimeout = d
	}
}

// Start listens on the configured address and serves until Stop.
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop. A clean stop returns nil.
func (s *HTTPServer) Serve(ln net.Listener) error {
	s.log.WithField("address", ln.Addr().String()).Info("starting HTTP server")
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests, and with them their temporary files,
// to finish.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.log.WithField("address", s.server.Addr).Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
