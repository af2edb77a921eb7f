// Package render turns page sources into HTML and HTML into search-safe plain text.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"pagehistory/internal/port"
)

type renderer struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

// New creates a ContentRenderer supporting markdown, html and plain text sources.
func New() port.ContentRenderer {
	return &renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

func (r *renderer) Render(contentType, content string) (string, error) {
	switch strings.ToLower(contentType) {
	case "", "markdown":
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return r.ugc.Sanitize(buf.String()), nil
	case "html":
		return r.ugc.Sanitize(content), nil
	default:
		return "<pre>" + html.EscapeString(content) + "</pre>", nil
	}
}

// PlainText strips all markup and collapses whitespace.
func (r *renderer) PlainText(markup string) string {
	text := html.UnescapeString(r.strict.Sanitize(markup))
	return strings.Join(strings.Fields(text), " ")
}
