package chart

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Canvas geometry shared by the file graphers.
const (
	canvasW    = 560
	canvasH    = 380
	titleY     = 28
	plotTop    = 56
	barLabelW  = 170
	barValueW  = 60
	barRowH    = 30
	barHeight  = 18
	ringRadius = 120
	ringInner  = 70
)

// fileName maps a slot to its output file name with the given extension.
func fileName(dir string, slot Slot, ext string) string {
	return filepath.Join(dir, string(slot)+"."+ext)
}

// radarVertex returns the point for axis i of n at fraction f of radius r.
// Axis 0 points straight up and axes proceed clockwise.
func radarVertex(i, n int, f, cx, cy, r float64) (float64, float64) {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	return cx + f*r*math.Cos(angle), cy + f*r*math.Sin(angle)
}

// radarFractions scales values into [0,1] of the dataset maximum.
func radarFractions(ds Dataset) []float64 {
	scale := ds.Scale()
	out := make([]float64, len(ds.Values))
	for i, v := range ds.Values {
		out[i] = math.Min(v/scale, 1)
	}
	return out
}

// sectors returns the start and end angle of each doughnut sector, starting
// at twelve o'clock. Zero totals yield no sectors.
func sectors(ds Dataset) [][2]float64 {
	total := ds.Total()
	if total == 0 {
		return nil
	}
	out := make([][2]float64, len(ds.Values))
	start := -math.Pi / 2
	for i, v := range ds.Values {
		end := start + 2*math.Pi*v/total
		out[i] = [2]float64{start, end}
		start = end
	}
	return out
}

// sectorPath draws an annular sector as an SVG path.
func sectorPath(cx, cy, outer, inner, a1, a2 float64) string {
	large := 0
	if a2-a1 > math.Pi {
		large = 1
	}
	p := func(r, a float64) string {
		return fmt.Sprintf("%.2f %.2f", cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %s ", p(outer, a1))
	fmt.Fprintf(&b, "A %.2f %.2f 0 %d 1 %s ", outer, outer, large, p(outer, a2))
	fmt.Fprintf(&b, "L %s ", p(inner, a2))
	fmt.Fprintf(&b, "A %.2f %.2f 0 %d 0 %s Z", inner, inner, large, p(inner, a1))
	return b.String()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
