package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/dashboard"
)

// WriteReport writes a static rendering of v to w: the status line, each
// panel under a divider, and the insights. It is used when stdout is not a
// terminal.
func WriteReport(w io.Writer, v dashboard.View, charts *chart.TextGrapher, width int) error {
	if width <= 0 {
		width = 80
	}
	t := DefaultTheme(lipgloss.NewRenderer(w))

	var sb strings.Builder
	sb.WriteString(t.Title.Render("plateview"))
	sb.WriteString("  ")
	sb.WriteString(v.Message)
	if sel := selectionLabel(v); sel != "" {
		sb.WriteString("  ")
		sb.WriteString(sel)
	}
	sb.WriteString("\n")

	bodies := panelBodies(t, v, charts, width)
	titles := [4]string{titleEcosystem, titleCuisine, titleCompetitive, titleOpportunities}
	for i, body := range bodies {
		sb.WriteString("\n")
		sb.WriteString(t.PanelTitle.Render(titles[i]))
		sb.WriteString("\n")
		sb.WriteString(RenderDivider(t, width))
		sb.WriteString("\n")
		sb.WriteString(body)
		sb.WriteString("\n")
	}

	if len(v.Insights) > 0 {
		sb.WriteString("\n")
		sb.WriteString(t.PanelTitle.Render("Insights"))
		sb.WriteString("\n")
		sb.WriteString(RenderDivider(t, width))
		sb.WriteString("\n")
		sb.WriteString(InsightsText(v.Insights))
		sb.WriteString("\n")
	}

	_, err := fmt.Fprint(w, sb.String())
	return err
}
