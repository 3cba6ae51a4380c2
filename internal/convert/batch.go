// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Status is the outcome of converting one local file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// frontmatter is the YAML header written above converted Markdown.
type frontmatter struct {
	Source      string `yaml:"source"`
	Title       string `yaml:"title,omitempty"`
	ConvertedAt string `yaml:"converted_at"`
}

// ConvertFile converts the document at srcPath and writes outDir/<base>.md.
// If the output already exists and force is false, the file is skipped.
func ConvertFile(ctx context.Context, c Converter, srcPath, outDir string, force bool, w io.Writer) Status {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	mdPath := filepath.Join(outDir, base+".md")

	if !force {
		if _, err := os.Stat(mdPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
			return StatusSkipped
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return StatusFailed
	}

	res, err := c.Convert(ctx, srcPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return StatusFailed
	}

	content, err := addFrontmatter(srcPath, res)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return StatusFailed
	}

	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return StatusFailed
	}

	fmt.Fprintf(w, "converted: %s\n", base)
	return StatusConverted
}

// ConvertBatch converts every path in order, printing per-file status to w
// and returning a summary. A cancelled context marks the remaining files
// failed.
func ConvertBatch(ctx context.Context, c Converter, paths []string, outDir string, force bool, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		switch ConvertFile(ctx, c, p, outDir, force, w) {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// addFrontmatter prepends YAML frontmatter to the converted Markdown.
func addFrontmatter(srcPath string, res Result) (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		Source:      srcPath,
		Title:       res.Title,
		ConvertedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(res.Markdown)
	b.WriteString("\n")
	return b.String(), nil
}
