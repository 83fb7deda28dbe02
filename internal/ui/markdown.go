package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	defaultMarkdownWidth = 80
	defaultMarkdownStyle = "dark"
)

// renderer cache, rebuilt when width or style changes.
var (
	rendererMu    sync.Mutex
	renderer      *glamour.TermRenderer
	rendererWidth int
	rendererStyle string
)

func termRenderer(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = defaultMarkdownWidth
	}
	if style == "" {
		style = defaultMarkdownStyle
	}
	if renderer != nil && width == rendererWidth && style == rendererStyle {
		return renderer, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderer, rendererWidth, rendererStyle = r, width, style
	return r, nil
}

// RenderMarkdownWithStyle renders markdown content using the specified glamour
// style. The original content is returned if rendering fails.
func RenderMarkdownWithStyle(content string, width int, style string) string {
	if content == "" {
		return ""
	}

	rendererMu.Lock()
	defer rendererMu.Unlock()

	r, err := termRenderer(width, style)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// RenderMarkdown renders with the "dark" style.
func RenderMarkdown(content string, width int) string {
	return RenderMarkdownWithStyle(content, width, defaultMarkdownStyle)
}
