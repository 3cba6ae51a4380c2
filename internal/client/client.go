// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client calls a remote marker server.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/marker/internal/httputil"
	"github.com/pdiddy/marker/pkg/types"
)

// ErrUnauthorized is returned when the server rejects the API key.
var ErrUnauthorized = errors.New("server rejected the API key")

// maxErrorBody caps how much of an unparseable error body is quoted.
const maxErrorBody = 512

// StatusError is returned for any non-200 response other than 401.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

// Client posts documents to /mark.
type Client struct {
	cfg  types.ClientConfig
	http *http.Client
	log  logrus.FieldLogger
}

// New returns a Client for cfg. Timeout applies to each HTTP attempt.
func New(cfg types.ClientConfig, log logrus.FieldLogger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// Mark sends doc to the server and returns its response.
func (c *Client) Mark(ctx context.Context, doc []byte) (types.MarkResponse, error) {
	body, err := json.Marshal(types.MarkRequest{Base64: base64.StdEncoding.EncodeToString(doc)})
	if err != nil {
		return types.MarkResponse{}, fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Host, "/") + "/mark"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return types.MarkResponse{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(types.HeaderAPIKey, c.cfg.APIKey)

	c.log.WithFields(logrus.Fields{"url": url, "bytes": len(doc)}).Debug("posting document")
	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries, c.log)
	if err != nil {
		return types.MarkResponse{}, fmt.Errorf("calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out types.MarkResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return types.MarkResponse{}, fmt.Errorf("decoding response: %w", err)
		}
		return out, nil
	case http.StatusUnauthorized:
		return types.MarkResponse{}, ErrUnauthorized
	default:
		return types.MarkResponse{}, &StatusError{StatusCode: resp.StatusCode, Detail: errorDetail(resp.Body)}
	}
}

func errorDetail(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	var er types.ErrorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Detail != "" {
		return er.Detail
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	if s == "" {
		return "empty response body"
	}
	return s
}
