// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
)

func init() {
	// pdfcpu otherwise writes a config.yml under the user config dir on first use.
	api.DisableConfigDir()
}

// PDFConverter extracts the text layer of a PDF. Scanned, image-only PDFs
// have no text layer and fail conversion.
type PDFConverter struct {
	// pageCount validates the document structure before extraction.
	pageCount func(path string) (int, error)
	log       logrus.FieldLogger
}

// NewPDFConverter returns a PDFConverter backed by pdfcpu for structural
// checks and ledongthuc/pdf for text extraction. Pages the extractor cannot
// read are logged to log and skipped.
func NewPDFConverter(log logrus.FieldLogger) *PDFConverter {
	return &PDFConverter{pageCount: api.PageCountFile, log: log}
}

// Convert returns the text of every readable page, separated by blank lines,
// and the Title entry of the document information dictionary. It fails only
// when no page yields text.
func (c *PDFConverter) Convert(ctx context.Context, path string) (res Result, err error) {
	// Both parsers panic on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, fmt.Errorf("parsing PDF %s: %v", path, r)
		}
	}()

	pages, err := c.pageCount(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading PDF structure of %s: %w", path, err)
	}
	if pages == 0 {
		return Result{}, fmt.Errorf("PDF %s has no pages", path)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var parts []string
	var pageErrs []error
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("converting %s: %w", path, err)
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			pageErrs = append(pageErrs, fmt.Errorf("page %d: %w", i, err))
			c.logger().WithFields(logrus.Fields{"path": path, "page": i}).
				WithError(err).Warn("skipping unreadable PDF page")
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	if len(parts) == 0 {
		if len(pageErrs) > 0 {
			return Result{}, fmt.Errorf("PDF %s has no readable text: %w", path, errors.Join(pageErrs...))
		}
		return Result{}, fmt.Errorf("PDF %s has no extractable text layer", path)
	}

	return Result{
		Markdown: strings.Join(parts, "\n\n"),
		Title:    strings.TrimSpace(r.Trailer().Key("Info").Key("Title").Text()),
	}, nil
}

func (c *PDFConverter) logger() logrus.FieldLogger {
	if c.log == nil {
		return logrus.StandardLogger()
	}
	return c.log
}
