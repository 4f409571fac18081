package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML must survive rendering: a Markdown file is usually an export
// pasted into a note, markup and all.
var markdownRenderer = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// markdownToHTML renders Markdown source to HTML.
func markdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
