package charts

import (
	"fmt"

	"activity-charts/internal/features/convert"
	"activity-charts/internal/layout"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// ringBounds returns the inner and outer radius of ring level in canvas
// pixels. Ring n spans base+(n-1)*ring .. base+n*ring units.
func (r *GGRenderer) ringBounds(level int, unit float64) (float64, float64) {
	inner := (r.cfg.BaseRadius + float64(level-1)*r.cfg.RingWidth) * unit
	return inner, inner + r.cfg.RingWidth*unit
}

// ringUnit is the pixel length of one radius unit such that the outermost
// ring fills the plot area.
func (r *GGRenderer) ringUnit(f frame, depth int) float64 {
	extent := r.cfg.BaseRadius + float64(depth)*r.cfg.RingWidth
	return f.radius * ringRadiusRatio / extent
}

func (r *GGRenderer) drawSunburst(c *canvas, f frame, chart convert.Chart, colors []colorful.Color) {
	dc := c.dc
	depth := chart.MaxDepth
	for _, s := range chart.Segments {
		depth = max(depth, s.Level)
	}
	unit := r.ringUnit(f, depth)

	dc.SetLineWidth(edgeWidth * c.scale)
	for i, s := range chart.Segments {
		inner, outer := r.ringBounds(s.Level, unit)
		sector(dc, f.cx, f.cy, inner, outer, s.StartAngle, s.EndAngle())
		dc.SetColor(colors[i])
		dc.FillPreserve()
		dc.SetColor(white)
		dc.Stroke()
	}

	if r.cfg.BaseRadius > 0 {
		dc.DrawCircle(f.cx, f.cy, r.cfg.BaseRadius*unit)
		dc.SetColor(white)
		dc.Fill()
	}

	points := c.setFont(0.75)
	lineHeight := points * 1.25
	dc.SetColor(textColor)
	for _, s := range chart.Segments {
		inner, outer := r.ringBounds(s.Level, unit)
		mid := s.MidAngle()
		x, y := polar(f.cx, f.cy, (inner+outer)/2, mid)

		dc.Push()
		dc.RotateAbout(gg.Radians(-uprightRotation(mid)), x, y)
		dc.DrawStringAnchored(s.Label, x, y-lineHeight/2, 0.5, 0.5)
		dc.DrawStringAnchored(segmentCaption(s), x, y+lineHeight/2, 0.5, 0.5)
		dc.Pop()
	}
}

// uprightRotation turns text tangentially at mid degrees and flips it so
// the result stays within [-90, 90] and never reads upside down.
func uprightRotation(mid float64) float64 {
	rotation := mid - 90
	for rotation > 90 {
		rotation -= 180
	}
	for rotation < -90 {
		rotation += 180
	}
	return rotation
}

// segmentCaption is the second label line, e.g. "30 (75.0%)".
func segmentCaption(s layout.Segment) string {
	return fmt.Sprintf("%s (%s)", layout.FormatValue(s.Value), layout.FormatPercent(s.Percentage))
}
