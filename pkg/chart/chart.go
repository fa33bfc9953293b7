// Package chart is the graphing collaborator behind the dashboard panels.
//
// The dashboard never draws anything itself. It builds a Dataset and asks a
// Registry to render it into a Slot; the Registry guarantees that a slot
// holds at most one live chart by destroying the previous one first.
// Concrete Graphers draw into the terminal (TextGrapher), SVG files
// (SVGGrapher) or PNG files (PNGGrapher).
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

// Kind selects a visualization.
type Kind string

const (
	Radar    Kind = "radar"
	Doughnut Kind = "doughnut"
	Bar      Kind = "bar"
)

// Slot names a chart surface. Each dashboard panel owns one.
type Slot string

const (
	SlotEcosystem     Slot = "ecosystem"
	SlotCuisine       Slot = "cuisine"
	SlotCompetitive   Slot = "competitive"
	SlotOpportunities Slot = "opportunities"
)

// AllSlots lists every slot in panel order.
var AllSlots = []Slot{SlotEcosystem, SlotCuisine, SlotCompetitive, SlotOpportunities}

// Dataset is everything a Grapher needs to draw one chart.
type Dataset struct {
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	// Colors are CSS hex colors, one per value. Missing entries fall back
	// to the default palette.
	Colors []string `json:"colors,omitempty"`
	// Max is the value axis maximum. Zero scales to the largest value.
	Max float64 `json:"max,omitempty"`
}

// Validate checks that labels and values line up.
func (d Dataset) Validate() error {
	switch d.Kind {
	case Radar, Doughnut, Bar:
	default:
		return fmt.Errorf("unknown chart kind %q", d.Kind)
	}
	if len(d.Values) == 0 {
		return errors.New("dataset has no values")
	}
	if len(d.Labels) != len(d.Values) {
		return fmt.Errorf("dataset has %d labels for %d values", len(d.Labels), len(d.Values))
	}
	for i, v := range d.Values {
		if v < 0 {
			return fmt.Errorf("value %d (%s) is negative", i, d.Labels[i])
		}
	}
	return nil
}

// Scale returns the value-axis maximum.
func (d Dataset) Scale() float64 {
	if d.Max > 0 {
		return d.Max
	}
	var m float64
	for _, v := range d.Values {
		if v > m {
			m = v
		}
	}
	if m == 0 {
		return 1
	}
	return m
}

// Total returns the sum of all values.
func (d Dataset) Total() float64 {
	var t float64
	for _, v := range d.Values {
		t += v
	}
	return t
}

// Palette is the default series palette.
var Palette = []string{"#4f46e5", "#10b981", "#f59e0b", "#ef4444", "#06b6d4", "#8b5cf6", "#84cc16", "#ec4899"}

// ColorAt returns the color for series i.
func (d Dataset) ColorAt(i int) string {
	if i < len(d.Colors) && d.Colors[i] != "" {
		return d.Colors[i]
	}
	return Palette[i%len(Palette)]
}

// Grapher draws datasets into slots.
type Grapher interface {
	Render(slot Slot, ds Dataset) error
	Destroy(slot Slot)
}

// Registry tracks live charts per slot on top of a Grapher.
// It is not safe for concurrent use; the dashboard owns it from a single
// goroutine.
type Registry struct {
	g    Grapher
	live map[Slot]Dataset
}

// NewRegistry wraps g.
func NewRegistry(g Grapher) *Registry {
	return &Registry{g: g, live: make(map[Slot]Dataset)}
}

// Render validates ds, destroys any chart already in slot and renders ds.
// On error the slot is left empty.
func (r *Registry) Render(slot Slot, ds Dataset) error {
	if err := ds.Validate(); err != nil {
		r.Destroy(slot)
		return fmt.Errorf("chart %s: %w", slot, err)
	}
	r.Destroy(slot)
	if err := r.g.Render(slot, ds); err != nil {
		return fmt.Errorf("chart %s: %w", slot, err)
	}
	r.live[slot] = ds
	return nil
}

// Destroy releases the chart in slot, if any.
func (r *Registry) Destroy(slot Slot) {
	if _, ok := r.live[slot]; !ok {
		return
	}
	r.g.Destroy(slot)
	delete(r.live, slot)
}

// DestroyAll releases every live chart in slot order.
func (r *Registry) DestroyAll() {
	for _, slot := range r.Live() {
		r.Destroy(slot)
	}
}

// Live returns the slots holding a chart, sorted.
func (r *Registry) Live() []Slot {
	out := make([]Slot, 0, len(r.live))
	for s := range r.live {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Dataset returns the dataset currently rendered in slot.
func (r *Registry) Dataset(slot Slot) (Dataset, bool) {
	ds, ok := r.live[slot]
	return ds, ok
}

// parseHex converts "#rrggbb" to a color, falling back to gray.
func parseHex(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{0x88, 0x88, 0x88, 0xff}
	}
	return color.RGBA{r, g, b, 0xff}
}
