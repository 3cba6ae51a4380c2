// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// HTMLConverter renders HTML documents as CommonMark.
type HTMLConverter struct {
	conv *converter.Converter
}

// NewHTMLConverter returns an HTMLConverter that drops page chrome (navigation,
// forms, embedded media) and keeps the document body.
func NewHTMLConverter() *HTMLConverter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	for _, tag := range []string{"nav", "form", "button", "select", "canvas", "svg", "video", "audio", "embed", "object"} {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &HTMLConverter{conv: conv}
}

// Convert returns the Markdown body and the <title> text, falling back to
// the first <h1>.
func (c *HTMLConverter) Convert(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading HTML %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("converting %s: %w", path, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("parsing HTML %s: %w", path, err)
	}
	title := strings.TrimSpace(doc.Find("head title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	md, err := c.conv.ConvertString(string(data))
	if err != nil {
		return Result{}, fmt.Errorf("converting HTML %s: %w", path, err)
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return Result{}, fmt.Errorf("HTML %s has no convertible content", path)
	}

	return Result{Markdown: md, Title: title}, nil
}
