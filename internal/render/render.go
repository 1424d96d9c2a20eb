// Package render turns generated markdown into HTML that is safe to display.
//
// Markdown is converted with goldmark (GFM, heading IDs, chroma highlighting via CSS classes)
// and the result is passed through a bluemonday UGC policy, so model output can never inject
// scripts or event handlers into the page.
package render

import (
	"bytes"
	"fmt"
	"io"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const DefaultStyle = "github"

// Renderer converts markdown to sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	style  string
}

// New creates a Renderer whose code blocks use the named chroma style.
func New(style string) *Renderer {
	if styles.Get(style) == styles.Fallback {
		style = DefaultStyle
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowStyling()

	return &Renderer{md: md, policy: policy, style: style}
}

// Render converts src to sanitized HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRender, err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// WriteCSS writes the stylesheet for highlighted code blocks.
func (r *Renderer) WriteCSS(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(w, styles.Get(r.style)); err != nil {
		return fmt.Errorf("failed to write highlight css: %w", err)
	}
	return nil
}

var defaultRenderer = New(DefaultStyle)

// Markdown converts src to sanitized HTML with the default renderer.
func Markdown(src string) (string, error) {
	return defaultRenderer.Render(src)
}

// Stylesheet returns the default renderer's code highlighting CSS.
func Stylesheet() string {
	var buf bytes.Buffer
	if err := defaultRenderer.WriteCSS(&buf); err != nil {
		return ""
	}
	return buf.String()
}
