// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns documents on local disk into Markdown. Backends
// implement Converter; Dispatcher picks one per document kind.
package convert

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// sniffLen is the number of leading bytes inspected by Detect.
const sniffLen = 1024

var (
	pdfHeader = []byte("%PDF-")
	utf8BOM   = []byte("\xef\xbb\xbf")
)

// ErrUnsupported is returned for documents no registered converter accepts.
var ErrUnsupported = errors.New("unsupported document type")

// Result is the outcome of converting one document.
type Result struct {
	Markdown string
	// Title is empty when the document carries none.
	Title string
}

// Converter transforms the document at path into Markdown. Implementations
// must not modify or remove the file.
type Converter interface {
	Convert(ctx context.Context, path string) (Result, error)
}

// Kind classifies a document by its content.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindHTML    Kind = "html"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

// Ext returns the file extension used for temporary copies of this kind.
func (k Kind) Ext() string {
	switch k {
	case KindPDF:
		return ".pdf"
	case KindHTML:
		return ".html"
	case KindText:
		return ".txt"
	default:
		return ".bin"
	}
}

// DetectBytes classifies a document from its leading bytes.
func DetectBytes(head []byte) Kind {
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if len(head) == 0 {
		return KindUnknown
	}
	lead := bytes.TrimLeft(bytes.TrimPrefix(head, utf8BOM), " \t\r\n\f\x00")
	if bytes.HasPrefix(lead, pdfHeader) {
		return KindPDF
	}

	ct := http.DetectContentType(head)
	switch {
	case strings.HasPrefix(ct, "text/html"):
		return KindHTML
	case strings.HasPrefix(ct, "text/plain"):
		return KindText
	case bytes.Contains(head, pdfHeader):
		// Readers accept binary junk before the header within the first KiB.
		return KindPDF
	default:
		return KindUnknown
	}
}

// Detect classifies the document at path.
func Detect(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, fmt.Errorf("reading %s: %w", path, err)
	}
	return DetectBytes(head[:n]), nil
}

// Dispatcher routes each document to the converter registered for its kind.
type Dispatcher struct {
	converters map[Kind]Converter
}

// NewDispatcher returns a Dispatcher with the in-process converters for PDF,
// HTML and plain text registered.
func NewDispatcher(log logrus.FieldLogger) *Dispatcher {
	d := &Dispatcher{converters: make(map[Kind]Converter)}
	d.Register(KindPDF, NewPDFConverter(log))
	d.Register(KindHTML, NewHTMLConverter())
	d.Register(KindText, TextConverter{})
	return d
}

// Register sets the converter for kind, replacing any previous one.
func (d *Dispatcher) Register(kind Kind, c Converter) {
	d.converters[kind] = c
}

// Convert detects the kind of the document at path and delegates to the
// matching converter.
func (d *Dispatcher) Convert(ctx context.Context, path string) (Result, error) {
	kind, err := Detect(path)
	if err != nil {
		return Result{}, err
	}
	c, ok := d.converters[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	return c.Convert(ctx, path)
}

// titleFromMarkdown returns the text of the first level-one ATX heading.
func titleFromMarkdown(md string) string {
	sc := bufio.NewScanner(strings.NewReader(md))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}
