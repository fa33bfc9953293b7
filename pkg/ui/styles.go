package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Layout thresholds.
const (
	SelectorWidth     = 28
	MinPanelWidth     = 30
	InsightsHeight    = 8
	WideViewThreshold = 110
)

// RenderBadge renders "label value" with the value in color.
func RenderBadge(t Theme, label, value string, color lipgloss.TerminalColor) string {
	l := t.MutedText.Render(label)
	v := t.Renderer.NewStyle().Bold(true).Foreground(color).Render(value)
	return l + " " + v
}

// RenderPanel draws a titled, bordered box of the given outer size.
func RenderPanel(t Theme, title, body string, width, height int, focused bool) string {
	style := t.Panel
	if focused {
		style = t.PanelFocused
	}
	// Border and padding take two columns each side pair.
	innerW := max(width-2-2*SpaceXS, 1)
	innerH := max(height-2, 1)

	lines := []string{t.PanelTitle.Render(truncate(title, innerW))}
	for _, line := range strings.Split(body, "\n") {
		lines = append(lines, truncateRunesHelper(line, innerW, "…"))
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	return style.
		Width(innerW + 2*SpaceXS).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
}

// RenderDivider renders a horizontal rule.
func RenderDivider(t Theme, width int) string {
	if width <= 0 {
		return ""
	}
	return t.MutedText.Render(strings.Repeat("─", width))
}
