package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"math"
	"os"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/plateview/pkg/logging"
)

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorGrid     = color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
)

// PNGGrapher writes each slot to DIR/<slot>.png. Destroy removes the file.
type PNGGrapher struct {
	dir string
}

// NewPNGGrapher creates dir if needed and returns a grapher writing into it.
func NewPNGGrapher(dir string) (*PNGGrapher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chart directory: %w", err)
	}
	return &PNGGrapher{dir: dir}, nil
}

// Path returns the file backing slot.
func (g *PNGGrapher) Path(slot Slot) string {
	return fileName(g.dir, slot, "png")
}

// Render implements Grapher.
func (g *PNGGrapher) Render(slot Slot, ds Dataset) error {
	return DrawPNG(ds).SavePNG(g.Path(slot))
}

// Destroy implements Grapher.
func (g *PNGGrapher) Destroy(slot Slot) {
	if err := os.Remove(g.Path(slot)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Str("slot", string(slot)).Msg("removing chart file")
	}
}

// DrawPNG draws ds onto a fresh raster context.
func DrawPNG(ds Dataset) *gg.Context {
	dc := gg.NewContext(canvasW, canvasH)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(ds.Title, 24, titleY, 0, 0.5)

	switch ds.Kind {
	case Radar:
		drawRadarPNG(dc, ds)
	case Doughnut:
		drawDoughnutPNG(dc, ds)
	default:
		drawBarPNG(dc, ds)
	}
	return dc
}

func drawRadarPNG(dc *gg.Context, ds Dataset) {
	n := len(ds.Values)
	cx, cy := float64(canvasW)/2, float64(plotTop+canvasH)/2
	r := float64(ringRadius)

	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	for _, ring := range []float64{0.25, 0.5, 0.75, 1} {
		for i := 0; i < n; i++ {
			x, y := radarVertex(i, n, ring, cx, cy, r)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.Stroke()
	}
	for i := 0; i < n; i++ {
		x, y := radarVertex(i, n, 1, cx, cy, r)
		dc.DrawLine(cx, cy, x, y)
		dc.Stroke()
	}

	fracs := radarFractions(ds)
	c := parseHex(ds.ColorAt(0))
	for i := 0; i < n; i++ {
		x, y := radarVertex(i, n, fracs[i], cx, cy, r)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetColor(color.NRGBA{c.R, c.G, c.B, 0x4c})
	dc.FillPreserve()
	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetColor(colorSubtle)
	for i := 0; i < n; i++ {
		lx, ly := radarVertex(i, n, 1.18, cx, cy, r)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%s)", truncate(ds.Labels[i], 24), formatValue(ds.Values[i])), lx, ly, 0.5, 0.5)
	}
}

func drawBarPNG(dc *gg.Context, ds Dataset) {
	scale := ds.Scale()
	plotW := float64(canvasW - barLabelW - barValueW - 24)
	for i, v := range ds.Values {
		y := float64(plotTop + i*barRowH)
		w := math.Min(v/scale, 1) * plotW

		dc.SetColor(colorText)
		dc.DrawStringAnchored(truncate(ds.Labels[i], 20), 24, y+barHeight/2, 0, 0.5)

		dc.SetColor(parseHex(ds.ColorAt(i)))
		dc.DrawRoundedRectangle(barLabelW, y, w, barHeight, 3)
		dc.Fill()

		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(formatValue(v), barLabelW+w+6, y+barHeight/2, 0, 0.5)
	}
}

func drawDoughnutPNG(dc *gg.Context, ds Dataset) {
	cx, cy := float64(ringRadius+40), float64(plotTop+canvasH)/2
	mid := float64(ringRadius+ringInner) / 2
	total := ds.Total()

	dc.SetLineWidth(float64(ringRadius - ringInner))
	for i, a := range sectors(ds) {
		if a[1] <= a[0] {
			continue
		}
		dc.SetColor(parseHex(ds.ColorAt(i)))
		dc.NewSubPath()
		dc.DrawArc(cx, cy, mid, a[0], a[1])
		dc.Stroke()
	}

	legendX := cx + ringRadius + 40
	for i, v := range ds.Values {
		y := float64(plotTop + 20 + i*22)
		dc.SetColor(parseHex(ds.ColorAt(i)))
		dc.DrawRoundedRectangle(legendX, y-10, 14, 14, 3)
		dc.Fill()

		share := 0.0
		if total > 0 {
			share = v / total * 100
		}
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(fmt.Sprintf("%s %.0f%%", truncate(ds.Labels[i], 22), share), legendX+20, y-3, 0, 0.5)
	}
}
