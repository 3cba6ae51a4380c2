// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/marker/internal/httputil"
	"github.com/pdiddy/marker/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func newClient(url string) *Client {
	log, _ := test.NewNullLogger()
	return New(types.ClientConfig{Host: url + "/", APIKey: "secret123", Timeout: 5 * time.Second, MaxRetries: 2}, log)
}

func TestMark_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mark", r.URL.Path)
		assert.Equal(t, "secret123", r.Header.Get(types.HeaderAPIKey))

		var req types.MarkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		doc, err := base64.StdEncoding.DecodeString(req.Base64)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(doc))

		title := "Hello"
		_ = json.NewEncoder(w).Encode(types.MarkResponse{ID: "abc", Markdown: "hello", Title: &title})
	}))
	defer ts.Close()

	resp, err := newClient(ts.URL).Mark(context.Background(), []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, "hello", resp.Markdown)
	require.NotNil(t, resp.Title)
	assert.Equal(t, "Hello", *resp.Title)
}

func TestMark_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantUnauth bool
		wantDetail string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Unauthorized"}`, true, ""},
		{"bad input", http.StatusBadRequest, `{"detail":"bad input: payload is not valid base64"}`, false, "bad input: payload is not valid base64"},
		{"conversion failed", http.StatusUnprocessableEntity, `{"detail":"conversion failed"}`, false, "conversion failed"},
		{"plain text body", http.StatusBadGateway, "upstream down", false, "upstream down"},
		{"empty body", http.StatusInternalServerError, "", false, "empty response body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newClient(ts.URL).Mark(context.Background(), []byte("x"))
			require.Error(t, err)
			if tt.wantUnauth {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantDetail, se.Detail)
		})
	}
}

func TestMark_RetriesOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.MarkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Base64)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(types.MarkResponse{ID: "retry"})
	}))
	defer ts.Close()

	resp, err := newClient(ts.URL).Mark(context.Background(), []byte("doc"))
	require.NoError(t, err)
	assert.Equal(t, "retry", resp.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMark_ServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newClient(url).Mark(context.Background(), []byte("doc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling")
}
