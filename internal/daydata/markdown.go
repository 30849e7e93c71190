package daydata

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer converts short markdown snippets into HTML suitable for a
// calendar cell.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a MarkdownRenderer with GitHub-flavoured
// markdown enabled. Raw HTML in the source is passed through.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &MarkdownRenderer{md: md}
}

// Render converts markdown source into HTML.
func (r *MarkdownRenderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderInline renders s and unwraps the result when it is a single
// paragraph, so "**due**" becomes "<strong>due</strong>".
func (r *MarkdownRenderer) RenderInline(s string) (string, error) {
	out, err := r.Render([]byte(s))
	if err != nil {
		return "", err
	}
	result := strings.TrimSpace(string(out))
	inner, ok := strings.CutPrefix(result, "<p>")
	if ok && strings.HasSuffix(inner, "</p>") && !strings.Contains(inner, "<p>") {
		result = strings.TrimSuffix(inner, "</p>")
	}
	return result, nil
}
