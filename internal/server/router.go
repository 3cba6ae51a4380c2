// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts the mark handler. POST /mark is the only route.
func NewRouter(h *Handler, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, AccessLog(log), Recover(log))

	r.Post("/mark", h.Mark)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
