// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package testutil builds document fixtures for tests.
package testutil

import (
	"bytes"
	"fmt"
	"strings"
)

// MinimalPDF returns a well-formed single-font PDF with one page per entry in
// pages. Each page shows its text in Helvetica. When title is non-empty it is
// stored in the document information dictionary.
func MinimalPDF(title string, pages ...string) []byte {
	return buildPDF(title, -1, pages)
}

// PDFWithUnreadablePage is MinimalPDF except that page broken (zero-based)
// points its /Contents at a dictionary instead of a stream, so text
// extraction of that page fails while the other pages stay readable.
func PDFWithUnreadablePage(title string, broken int, pages ...string) []byte {
	return buildPDF(title, broken, pages)
}

func buildPDF(title string, broken int, pages []string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	if title != "" {
		obj(fmt.Sprintf("<< /Title (%s) /Producer (marker) >>", escape(title)))
	} else {
		obj("<< /Producer (marker) >>")
	}
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escape(text))
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 6+2*i))
		if i == broken {
			obj("<< /Note (no stream) >>")
			continue
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
