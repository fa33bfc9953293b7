package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextGrapher renders charts as block-character text for the terminal.
// The UI reads a slot back with View when it draws the owning panel.
type TextGrapher struct {
	charts map[Slot]Dataset
}

// NewTextGrapher creates an empty text grapher.
func NewTextGrapher() *TextGrapher {
	return &TextGrapher{charts: make(map[Slot]Dataset)}
}

// Render implements Grapher.
func (t *TextGrapher) Render(slot Slot, ds Dataset) error {
	if _, ok := t.charts[slot]; ok {
		return fmt.Errorf("slot %s already holds a chart", slot)
	}
	t.charts[slot] = ds
	return nil
}

// Destroy implements Grapher.
func (t *TextGrapher) Destroy(slot Slot) {
	delete(t.charts, slot)
}

// Has reports whether slot holds a chart.
func (t *TextGrapher) Has(slot Slot) bool {
	_, ok := t.charts[slot]
	return ok
}

// View renders the chart in slot to at most width columns. It returns ""
// for an empty slot.
func (t *TextGrapher) View(slot Slot, width int) string {
	ds, ok := t.charts[slot]
	if !ok {
		return ""
	}
	return RenderText(ds, width)
}

// RenderText draws ds as text. Radar and bar charts become one bar per axis
// scaled to the dataset maximum; doughnuts become one bar per share of the
// total with a percentage.
func RenderText(ds Dataset, width int) string {
	if width < 20 {
		width = 20
	}

	labelW := 0
	for _, l := range ds.Labels {
		if w := runewidth.StringWidth(l); w > labelW {
			labelW = w
		}
	}
	if labelW > width/3 {
		labelW = width / 3
	}

	const valueW = 8
	barW := width - labelW - valueW - 2
	if barW < 4 {
		barW = 4
	}

	var sb strings.Builder
	if ds.Title != "" {
		sb.WriteString(runewidth.Truncate(ds.Title, width, "…"))
		sb.WriteString("\n")
	}

	scale, total := ds.Scale(), ds.Total()
	for i, v := range ds.Values {
		label := runewidth.FillRight(runewidth.Truncate(ds.Labels[i], labelW, "…"), labelW)

		var frac float64
		var value string
		switch ds.Kind {
		case Doughnut:
			if total > 0 {
				frac = v / total
			}
			value = fmt.Sprintf("%5.1f%%", frac*100)
		default:
			frac = v / scale
			value = formatValue(v)
		}
		if frac > 1 {
			frac = 1
		}

		filled := int(math.Round(frac * float64(barW)))
		sb.WriteString(label)
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("█", filled))
		sb.WriteString(strings.Repeat("░", barW-filled))
		sb.WriteString(" ")
		sb.WriteString(value)
		if i < len(ds.Values)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
