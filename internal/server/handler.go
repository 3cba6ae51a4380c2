// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the conversion service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/marker/internal/mark"
	"github.com/pdiddy/marker/pkg/types"
)

const detailUnauthorized = "Unauthorized"

// Converter is the part of mark.Service the handler depends on.
type Converter interface {
	Authorized(credential string) bool
	Convert(ctx context.Context, payload, credential string) (mark.Result, error)
}

// Handler serves POST /mark.
type Handler struct {
	svc     Converter
	maxBody int64
	log     logrus.FieldLogger
}

// NewHandler returns a Handler that rejects bodies larger than maxBody bytes.
func NewHandler(svc Converter, maxBody int64, log logrus.FieldLogger) *Handler {
	return &Handler{svc: svc, maxBody: maxBody, log: log}
}

func validateMarkRequest(req *types.MarkRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Base64, validation.Required),
	)
}

// Mark authenticates the caller, converts the posted document and writes
// the result. The credential is checked before the body is read.
func (h *Handler) Mark(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get(types.HeaderAPIKey)
	if !h.svc.Authorized(credential) {
		writeError(w, http.StatusUnauthorized, detailUnauthorized)
		return
	}

	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req types.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}

	if err := validateMarkRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Convert(r.Context(), req.Base64, credential)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := types.MarkResponse{
		ID:       res.ID,
		Markdown: res.Markdown,
	}
	if res.Title != "" {
		title := res.Title
		resp.Title = &title
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mark.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, detailUnauthorized)
	case errors.Is(err, mark.ErrBadInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mark.ErrConversionFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.WithError(err).WithField("request_id", RequestIDFrom(r.Context())).Error("mark request failed")
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, types.ErrorResponse{Detail: detail})
}
