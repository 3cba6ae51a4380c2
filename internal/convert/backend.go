// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/marker/internal/container"
	"github.com/pdiddy/marker/pkg/types"
)

// NewBackend builds the converter selected by cfg.Backend. An empty backend
// means native.
func NewBackend(ctx context.Context, cfg types.ConversionConfig, log logrus.FieldLogger) (Converter, error) {
	switch cfg.Backend {
	case "", types.BackendNative:
		return NewDispatcher(log), nil
	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(ctx, rt, cfg.MarkitdownImage)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q (want %s or %s)",
			cfg.Backend, types.BackendNative, types.BackendMarkitdown)
	}
}

// WithTimeout bounds every Convert call on c by d. A non-positive d returns c
// unchanged.
func WithTimeout(c Converter, d time.Duration) Converter {
	if d <= 0 {
		return c
	}
	return timeoutConverter{next: c, timeout: d}
}

type timeoutConverter struct {
	next    Converter
	timeout time.Duration
}

func (t timeoutConverter) Convert(ctx context.Context, path string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Convert(ctx, path)
}
