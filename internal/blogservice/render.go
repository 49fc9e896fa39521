package blogservice

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML pass-through is enabled so markdown articles can embed markup,
// matching the behavior of html-format articles. Script tags are stripped
// by sanitizeMarkdown first.
var markdownConverter = goldmark.New(
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// MarkdownToHTML converts a markdown document to HTML.
func MarkdownToHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(sanitizeMarkdown(src)), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderBody returns an article body as HTML: verbatim for the html format,
// converted for markdown. No other formats exist.
func RenderBody(a *Article) (template.HTML, error) {
	switch a.Format {
	case FormatHTML:
		return template.HTML(a.Text), nil
	case FormatMarkdown:
		return MarkdownToHTML(a.Text)
	default:
		return "", fmt.Errorf("unknown article format %q", a.Format)
	}
}
