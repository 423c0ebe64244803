package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownRender indicates a text/markdown payload could not be rendered.
var ErrMarkdownRender = errors.New("markdown rendering failed")

// defaultHighlightStyle is the chroma style used for fenced code blocks.
const defaultHighlightStyle = "github"

// MarkdownRenderer turns a markdown payload into an embeddable HTML fragment.
type MarkdownRenderer interface {
	RenderMarkdown(src string) (string, error)
}

// GoldmarkRenderer renders markdown with goldmark (pure Go).
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer with GFM extensions and
// inline-styled syntax highlighting. Worksheets embed output HTML without a
// stylesheet, so highlighting must not rely on CSS classes.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(defaultHighlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// WithUnsafe() is not used: raw HTML inside markdown payloads is
			// dropped rather than embedded into the worksheet.
		),
	)
	return &GoldmarkRenderer{md: md}
}

// RenderMarkdown converts markdown to an HTML fragment without a document wrapper.
func (r *GoldmarkRenderer) RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
