package chart

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/plateview/pkg/logging"
)

const (
	cssBackdrop = "#f9fafb"
	cssText     = "#111111"
	cssSubtle   = "#666666"
	cssGrid     = "#d1d5db"
)

// SVGGrapher writes each slot to DIR/<slot>.svg. Destroy removes the file.
type SVGGrapher struct {
	dir string
}

// NewSVGGrapher creates dir if needed and returns a grapher writing into it.
func NewSVGGrapher(dir string) (*SVGGrapher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}
	return &SVGGrapher{dir: dir}, nil
}

// Path returns the file backing slot.
func (g *SVGGrapher) Path(slot Slot) string {
	return fileName(g.dir, slot, "svg")
}

// Render implements Grapher.
func (g *SVGGrapher) Render(slot Slot, ds Dataset) error {
	f, err := os.Create(g.Path(slot))
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSVG(f, ds)
}

// Destroy implements Grapher.
func (g *SVGGrapher) Destroy(slot Slot) {
	if err := os.Remove(g.Path(slot)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Str("slot", string(slot)).Msg("removing chart file")
	}
}

// WriteSVG draws ds as a standalone SVG document.
func WriteSVG(w io.Writer, ds Dataset) error {
	canvas := svg.New(w)
	canvas.Start(canvasW, canvasH)
	canvas.Rect(0, 0, canvasW, canvasH, "fill:"+cssBackdrop)
	canvas.Text(24, titleY, ds.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", cssText))

	switch ds.Kind {
	case Radar:
		drawRadarSVG(canvas, ds)
	case Doughnut:
		drawDoughnutSVG(canvas, ds)
	default:
		drawBarSVG(canvas, ds)
	}

	canvas.End()
	return nil
}

func drawRadarSVG(canvas *svg.SVG, ds Dataset) {
	n := len(ds.Values)
	cx, cy := float64(canvasW)/2, float64(plotTop+canvasH)/2
	r := float64(ringRadius)

	for _, ring := range []float64{0.25, 0.5, 0.75, 1} {
		xs, ys := make([]int, n), make([]int, n)
		for i := 0; i < n; i++ {
			x, y := radarVertex(i, n, ring, cx, cy, r)
			xs[i], ys[i] = int(math.Round(x)), int(math.Round(y))
		}
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", cssGrid))
	}

	fracs := radarFractions(ds)
	xs, ys := make([]int, n), make([]int, n)
	for i := 0; i < n; i++ {
		ax, ay := radarVertex(i, n, 1, cx, cy, r)
		canvas.Line(int(cx), int(cy), int(math.Round(ax)), int(math.Round(ay)), fmt.Sprintf("stroke:%s;stroke-width:1", cssGrid))

		x, y := radarVertex(i, n, fracs[i], cx, cy, r)
		xs[i], ys[i] = int(math.Round(x)), int(math.Round(y))

		lx, ly := radarVertex(i, n, 1.18, cx, cy, r)
		canvas.Text(int(lx), int(ly), fmt.Sprintf("%s (%s)", truncate(ds.Labels[i], 24), formatValue(ds.Values[i])),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", cssSubtle))
	}
	color := ds.ColorAt(0)
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:0.3;stroke:%s;stroke-width:2", color, color))
}

func drawBarSVG(canvas *svg.SVG, ds Dataset) {
	scale := ds.Scale()
	plotW := float64(canvasW - barLabelW - barValueW - 24)
	for i, v := range ds.Values {
		y := plotTop + i*barRowH
		w := int(math.Round(math.Min(v/scale, 1) * plotW))
		canvas.Text(24, y+barHeight-4, truncate(ds.Labels[i], 20), fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", cssText))
		canvas.Roundrect(barLabelW, y, w, barHeight, 3, 3, "fill:"+ds.ColorAt(i))
		canvas.Text(barLabelW+w+6, y+barHeight-4, formatValue(v), fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", cssSubtle))
	}
}

func drawDoughnutSVG(canvas *svg.SVG, ds Dataset) {
	cx, cy := float64(ringRadius+40), float64(plotTop+canvasH)/2
	total := ds.Total()

	for i, a := range sectors(ds) {
		color := ds.ColorAt(i)
		if ds.Values[i] == total {
			mid := (ringRadius + ringInner) / 2
			canvas.Circle(int(cx), int(cy), mid, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", color, ringRadius-ringInner))
		} else if a[1] > a[0] {
			canvas.Path(sectorPath(cx, cy, ringRadius, ringInner, a[0], a[1]), "fill:"+color)
		}
	}

	legendX := int(cx) + ringRadius + 40
	for i, v := range ds.Values {
		y := plotTop + 20 + i*22
		canvas.Roundrect(legendX, y-10, 14, 14, 3, 3, "fill:"+ds.ColorAt(i))
		share := 0.0
		if total > 0 {
			share = v / total * 100
		}
		canvas.Text(legendX+20, y+2, fmt.Sprintf("%s %.0f%%", truncate(ds.Labels[i], 22), share),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", cssSubtle))
	}
}
