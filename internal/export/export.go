// Package export renders the board as markdown (and HTML) and writes export files.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"meeting-board/internal/model"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders one bullet per item, two spaces of indentation per level.
func Markdown(o model.Outline) string {
	items := o.Items()
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, strings.Repeat("  ", it.Indent)+"- "+it.Text)
	}
	return strings.Join(lines, "\n")
}

// FileName returns meeting-notes-<YYYY-MM-DD>.md for the UTC date of t.
func FileName(t time.Time) string {
	return "meeting-notes-" + t.UTC().Format("2006-01-02") + ".md"
}

// WriteFile writes the markdown export into dir and returns the file path.
func WriteFile(dir string, o model.Outline, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(Markdown(o)), 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// HTML renders the markdown export as an HTML fragment. Item text is user
// input, so the output is run through a UGC sanitizer.
func HTML(o model.Outline) (string, error) {
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(o)), &b); err != nil {
		return "", err
	}
	return bluemonday.UGCPolicy().Sanitize(b.String()), nil
}

// WriteHTMLFile writes the HTML export next to where the markdown file would go.
func WriteHTMLFile(dir string, o model.Outline, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	out, err := HTML(o)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, strings.TrimSuffix(FileName(now), ".md")+".html")
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}
