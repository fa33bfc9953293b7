package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/plateview/pkg/analysis"
)

// MarkdownRenderer renders the insights list through glamour. A nil
// renderer, or a rendering failure, yields the markdown source.
type MarkdownRenderer struct {
	tr    *glamour.TermRenderer
	width int
}

// NewMarkdownRenderer creates a renderer wrapping at width.
func NewMarkdownRenderer(width int, dark bool) *MarkdownRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &MarkdownRenderer{width: width}
	}
	return &MarkdownRenderer{tr: tr, width: width}
}

// Width returns the wrap width.
func (m *MarkdownRenderer) Width() int {
	if m == nil {
		return 0
	}
	return m.width
}

// Render renders md.
func (m *MarkdownRenderer) Render(md string) string {
	if m == nil || m.tr == nil {
		return md
	}
	out, err := m.tr.Render(md)
	if err != nil {
		return md
	}
	// Strip trailing whitespace/newlines that glamour adds
	return strings.TrimRight(out, " \n")
}

// InsightsMarkdown formats insights as a markdown list.
func InsightsMarkdown(insights []analysis.Insight) string {
	var sb strings.Builder
	for _, in := range insights {
		sb.WriteString("- **")
		sb.WriteString(in.Title)
		sb.WriteString("**: ")
		sb.WriteString(in.Description)
		sb.WriteString("\n")
	}
	return sb.String()
}

// InsightsText formats insights as plain text for the clipboard and the
// text report.
func InsightsText(insights []analysis.Insight) string {
	lines := make([]string, 0, len(insights))
	for _, in := range insights {
		lines = append(lines, in.Title+": "+in.Description)
	}
	return strings.Join(lines, "\n")
}
