package charts

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenAngle = 137.50776405003785

const (
	pastelChroma    = 0.28
	pastelLightness = 0.86
)

// palette returns n light colours. Hues step by the golden angle so
// neighbouring segments never share a hue; seed shifts the first hue.
func palette(n, seed int) []colorful.Color {
	origin := math.Mod(200+float64(seed)*goldenAngle, 360)
	colors := make([]colorful.Color, n)
	for i := range colors {
		h := math.Mod(origin+float64(i)*goldenAngle, 360)
		colors[i] = colorful.Hcl(h, pastelChroma, pastelLightness).Clamped()
	}
	return colors
}

var (
	textColor  = colorful.Color{R: 0.2, G: 0.2, B: 0.2}
	titleColor = colorful.Color{R: 0.1, G: 0.1, B: 0.1}
	white      = colorful.Color{R: 1, G: 1, B: 1}
)
