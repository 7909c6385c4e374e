// Package charts draws pie and sunburst charts with gg and writes them as
// PNG files.
package charts

import (
	"io"
	"math"
	"sync"
	"time"

	"activity-charts/internal/config"
	apperr "activity-charts/internal/errors"
	"activity-charts/internal/features/convert"
	"activity-charts/internal/infra/fs"
	logging "activity-charts/internal/infra/log"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

const (
	paddingRatio     = 0.04 // of the shorter canvas side
	legendWidthRatio = 0.36 // of the canvas width
	pieRadiusRatio   = 0.72 // leaves room for outside labels
	ringRadiusRatio  = 0.96
	edgeWidth        = 2.0
)

// GGRenderer renders charts with fogleman/gg.
type GGRenderer struct {
	cfg config.ChartConfig

	fontOnce sync.Once
	font     *fontSource
}

var _ convert.Renderer = (*GGRenderer)(nil)

func New(cfg config.ChartConfig) *GGRenderer {
	return &GGRenderer{cfg: cfg}
}

func (r *GGRenderer) fonts() *fontSource {
	r.fontOnce.Do(func() {
		r.font = loadFont(r.cfg.FontPath)
	})
	return r.font
}

// canvas bundles the drawing context with the supersample factor so sizes
// given in output pixels can be scaled in one place.
type canvas struct {
	dc       *gg.Context
	fonts    *fontSource
	scale    float64
	fontSize float64
}

func (c *canvas) setFont(relative float64) float64 {
	points := c.fontSize * relative * c.scale
	c.dc.SetFontFace(c.fonts.face(points))
	return points
}

// frame is the geometry shared by the pie and sunburst drawers.
type frame struct {
	width, height float64
	cx, cy        float64
	radius        float64 // largest circle that fits the plot area

	titleY float64

	legendX, legendTop, legendBottom, legendWidth float64
}

func (r *GGRenderer) computeFrame(chart convert.Chart, scale float64) frame {
	w := float64(r.cfg.Width) * scale
	h := float64(r.cfg.Height) * scale
	pad := math.Min(w, h) * paddingRatio

	f := frame{width: w, height: h}
	top := pad
	if chart.Title != "" {
		titleHeight := r.cfg.FontSize * 1.4 * scale * 1.8
		f.titleY = pad + titleHeight/2
		top += titleHeight
	}

	plotW := w - 2*pad
	if r.showLegend(chart) {
		f.legendWidth = w * legendWidthRatio
		f.legendX = w - f.legendWidth
		f.legendTop = top
		f.legendBottom = h - pad
		plotW -= f.legendWidth
	}
	plotH := h - top - pad

	f.cx = pad + plotW/2
	f.cy = top + plotH/2
	f.radius = math.Max(math.Min(plotW, plotH)/2, 1)
	return f
}

func (r *GGRenderer) showLegend(chart convert.Chart) bool {
	return r.cfg.Legend && chart.Kind == convert.KindSunburst && len(chart.Legend) > 0
}

// Render draws chart and writes it to path as PNG.
func (r *GGRenderer) Render(chart convert.Chart, path string) error {
	start := time.Now()

	if len(chart.Segments) == 0 {
		return apperr.RenderFailed(nil, "nothing to draw")
	}
	bg, err := colorful.Hex(r.cfg.Background)
	if err != nil {
		return apperr.RenderFailed(err, "background colour %q", r.cfg.Background)
	}

	scale := float64(max(r.cfg.Supersample, 1))
	dc := gg.NewContext(int(float64(r.cfg.Width)*scale), int(float64(r.cfg.Height)*scale))
	dc.SetColor(bg)
	dc.Clear()

	c := &canvas{dc: dc, fonts: r.fonts(), scale: scale, fontSize: r.cfg.FontSize}
	f := r.computeFrame(chart, scale)
	colors := palette(len(chart.Segments), r.cfg.PaletteSeed)

	switch chart.Kind {
	case convert.KindPie:
		r.drawPie(c, f, chart, colors, bg)
	case convert.KindSunburst:
		r.drawSunburst(c, f, chart, colors)
		if r.showLegend(chart) {
			drawLegend(c, f, chart, colors)
		}
	default:
		return apperr.RenderFailed(nil, "unknown chart kind %q", chart.Kind)
	}
	if chart.Title != "" {
		c.setFont(1.4)
		dc.SetColor(titleColor)
		dc.DrawStringAnchored(chart.Title, f.width/2, f.titleY, 0.5, 0.5)
	}

	img := dc.Image()
	if scale > 1 {
		img = imaging.Resize(img, r.cfg.Width, r.cfg.Height, imaging.Lanczos)
	}

	size, err := fs.WriteAtomic(path, func(w io.Writer) error {
		return imaging.Encode(w, img, imaging.PNG)
	})
	if err != nil {
		return apperr.RenderFailed(err, "write %s", path)
	}

	logging.LogSuccess("Chart rendered",
		zap.String("path", path),
		zap.String("kind", string(chart.Kind)),
		zap.Int("segments", len(chart.Segments)),
		zap.Int64("bytes", size),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// sector adds an annular sector between radii r0 and r1 spanning a0..a1
// degrees counter-clockwise from 3 o'clock. r0 == 0 gives a pie wedge.
func sector(dc *gg.Context, cx, cy, r0, r1, a0, a1 float64) {
	// gg's y axis points down, so counter-clockwise angles are negated
	s, e := gg.Radians(-a1), gg.Radians(-a0)
	dc.NewSubPath()
	dc.DrawArc(cx, cy, r1, s, e)
	if r0 > 0 {
		dc.DrawArc(cx, cy, r0, e, s)
	} else {
		dc.LineTo(cx, cy)
	}
	dc.ClosePath()
}

// polar converts a counter-clockwise angle and radius to canvas coordinates.
func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := gg.Radians(deg)
	return cx + r*math.Cos(rad), cy - r*math.Sin(rad)
}
