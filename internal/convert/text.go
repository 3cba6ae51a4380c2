// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// TextConverter passes plain text and Markdown through unchanged.
type TextConverter struct{}

func (TextConverter) Convert(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("converting %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return Result{}, fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	md := strings.TrimSpace(string(data))
	if md == "" {
		return Result{}, fmt.Errorf("%s is empty", path)
	}
	return Result{Markdown: md, Title: titleFromMarkdown(md)}, nil
}
