package charts

import (
	"fmt"

	"activity-charts/internal/activity"
	"activity-charts/internal/features/convert"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// drawLegend lists leaf entries with their swatch in the right-hand column,
// vertically centred. Entries that do not fit are summarised as "+N more".
func drawLegend(c *canvas, f frame, chart convert.Chart, colors []colorful.Color) {
	dc := c.dc
	colorOf := make(map[activity.NodeID]colorful.Color, len(chart.Segments))
	for i, s := range chart.Segments {
		colorOf[s.NodeID] = colors[i]
	}

	points := c.setFont(0.8)
	rowHeight := points * 1.6
	swatch := points * 0.9
	gap := points * 0.6
	textWidth := f.legendWidth - swatch - 2*gap

	rows := int((f.legendBottom - f.legendTop) / rowHeight)
	if rows < 1 || textWidth <= 0 {
		return
	}
	shown := chart.Legend
	hidden := 0
	if len(shown) > rows {
		shown = shown[:rows-1]
		hidden = len(chart.Legend) - len(shown)
	}

	used := len(shown)
	if hidden > 0 {
		used++
	}
	y := f.legendTop + (f.legendBottom-f.legendTop-float64(used)*rowHeight)/2 + rowHeight/2
	for _, e := range shown {
		dc.DrawRectangle(f.legendX, y-swatch/2, swatch, swatch)
		dc.SetColor(colorOf[e.NodeID])
		dc.Fill()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(fitText(dc, e.Text, textWidth), f.legendX+swatch+gap, y, 0, 0.5)
		y += rowHeight
	}
	if hidden > 0 {
		dc.SetColor(textColor)
		dc.DrawStringAnchored(fmt.Sprintf("+%d more", hidden), f.legendX+swatch+gap, y, 0, 0.5)
	}
}

// fitText shortens s with a trailing "..." until it fits width.
func fitText(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + "..."
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return "..."
}
