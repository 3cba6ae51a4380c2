// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/marker/internal/container"
)

// DefaultMarkitdownImage is the image built from the markitdown project's
// Dockerfile.
const DefaultMarkitdownImage = "markitdown:latest"

// MarkitdownConverter converts documents by piping them through the markitdown
// container image. It handles every format markitdown supports, so it is used
// directly rather than behind a Dispatcher.
type MarkitdownConverter struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownConverter creates a converter that uses the given container
// runtime to run image. It verifies that the image exists locally before
// returning.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime, image string) (*MarkitdownConverter, error) {
	if image == "" {
		image = DefaultMarkitdownImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt, image: image}, nil
}

// Convert pipes the file at path through the markitdown container and
// returns the resulting Markdown. The title is the first level-one heading.
func (m *MarkitdownConverter) Convert(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, f, &out); err != nil {
		return Result{}, fmt.Errorf("converting %s with markitdown: %w", path, err)
	}

	md := strings.TrimSpace(out.String())
	if md == "" {
		return Result{}, fmt.Errorf("markitdown produced empty output for %s", path)
	}

	return Result{Markdown: md, Title: titleFromMarkdown(md)}, nil
}
