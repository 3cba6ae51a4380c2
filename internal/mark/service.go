// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mark authenticates a base64 document payload, stages it as a
// temporary file and converts it to Markdown. Every temporary file is removed
// before Convert returns, whatever the outcome.
package mark

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/marker/internal/convert"
	"github.com/pdiddy/marker/pkg/types"
)

// Result is a successful conversion.
type Result struct {
	// ID is a fresh UUIDv4, unique per call.
	ID       string
	Markdown string
	// Title is empty when the converter found none.
	Title string
}

// Service converts authenticated document payloads. It is safe for
// concurrent use.
type Service struct {
	apiKey  string
	tmpDir  string
	timeout time.Duration
	conv    convert.Converter
	log     logrus.FieldLogger
}

// NewService returns a Service using cfg's API key, temporary directory and
// conversion timeout. An empty TmpDir means os.TempDir(); a zero timeout
// disables the limit.
func NewService(cfg types.ServerConfig, conv convert.Converter, log logrus.FieldLogger) *Service {
	tmpDir := cfg.TmpDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Service{
		apiKey:  cfg.APIKey,
		tmpDir:  tmpDir,
		timeout: cfg.Timeout,
		conv:    conv,
		log:     log,
	}
}

// Authorized reports whether credential matches the configured key. An
// unset key authorizes nobody.
func (s *Service) Authorized(credential string) bool {
	if s.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(s.apiKey)) == 1
}

// Convert authenticates credential, decodes payload, writes it to a uniquely
// named temporary file, converts it and removes the file.
//
// Failures carry one of ErrUnauthorized, ErrBadInput or ErrConversionFailed.
// Any other error is an internal fault such as an unwritable temp dir.
func (s *Service) Convert(ctx context.Context, payload, credential string) (Result, error) {
	if !s.Authorized(credential) {
		return Result{}, newError(ErrUnauthorized, nil)
	}

	data, err := decodePayload(payload)
	if err != nil {
		return Result{}, newError(ErrBadInput, err)
	}

	id := uuid.NewString()
	kind := convert.DetectBytes(data)
	log := s.log.WithFields(logrus.Fields{
		"id":    id,
		"kind":  kind,
		"bytes": len(data),
	})

	path, err := s.writeArtifact(id, kind, data)
	if err != nil {
		return Result{}, err
	}
	defer s.removeArtifact(path, log)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.conv.Convert(ctx, path)
	log = log.WithField("duration", time.Since(start).Round(time.Millisecond))
	if err != nil {
		log.WithError(err).Warn("conversion failed")
		return Result{}, newError(ErrConversionFailed, err)
	}

	log.WithField("has_title", res.Title != "").Info("converted document")
	return Result{ID: id, Markdown: res.Markdown, Title: res.Title}, nil
}

// decodePayload accepts standard base64 with optional surrounding whitespace
// and line breaks.
func decodePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.New("payload is empty")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("payload is not valid base64: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("payload decodes to zero bytes")
	}
	return data, nil
}

// writeArtifact creates tmpDir/<id><ext> exclusively with owner-only
// permissions. On failure nothing is left behind.
func (s *Service) writeArtifact(id string, kind convert.Kind, data []byte) (string, error) {
	path := filepath.Join(s.tmpDir, id+kind.Ext())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing temporary file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing temporary file %s: %w", path, err)
	}
	return path, nil
}

func (s *Service) removeArtifact(path string, log logrus.FieldLogger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).WithField("path", path).Error("removing temporary file")
	}
}
