package charts

import (
	"math"

	"activity-charts/internal/features/convert"
	"activity-charts/internal/layout"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// drawPie fills one wedge per level-1 segment, rotated by pie_start_angle.
// Labels sit outside the wedge and percentages inside it.
func (r *GGRenderer) drawPie(c *canvas, f frame, chart convert.Chart, colors []colorful.Color, edge colorful.Color) {
	dc := c.dc
	radius := f.radius * pieRadiusRatio
	rotate := r.cfg.PieStartAngle

	dc.SetLineWidth(edgeWidth * c.scale)
	for i, s := range chart.Segments {
		if s.Level != 1 {
			continue
		}
		sector(dc, f.cx, f.cy, 0, radius, s.StartAngle+rotate, s.EndAngle()+rotate)
		dc.SetColor(colors[i])
		dc.FillPreserve()
		dc.SetColor(edge)
		dc.Stroke()
	}

	c.setFont(1)
	dc.SetColor(textColor)
	for _, s := range chart.Segments {
		if s.Level != 1 {
			continue
		}
		mid := s.MidAngle() + rotate

		x, y := polar(f.cx, f.cy, radius*1.1, mid)
		ax := 0.0
		if math.Cos(gg.Radians(mid)) < 0 {
			ax = 1
		}
		dc.DrawStringAnchored(s.Label, x, y, ax, 0.5)

		x, y = polar(f.cx, f.cy, radius*0.6, mid)
		dc.DrawStringAnchored(layout.FormatPercent(s.Percentage), x, y, 0.5, 0.5)
	}
}
