// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_ServeAndStop(t *testing.T) {
	log, _ := test.NewNullLogger()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	tagged := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "yes")
			next.ServeHTTP(w, r)
		})
	}
	srv := NewHTTPServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "ok") }),
		log,
		WithAddress(ln.Addr().String()),
		WithMiddleware(tagged),
		WithWriteTimeout(time.Minute),
	)
	assert.Equal(t, time.Minute, srv.server.WriteTimeout)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "yes", resp.Header.Get("X-Test"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.NoError(t, <-done)
}

func TestHTTPServer_StartFailsOnBadAddress(t *testing.T) {
	log, _ := test.NewNullLogger()
	srv := NewHTTPServer(http.NotFoundHandler(), log, WithAddress("256.0.0.1:bad"))
	assert.Error(t, srv.Start())
}
