package charts

import (
	"os"
	"path/filepath"
	"sync"

	logging "activity-charts/internal/infra/log"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// systemFontPaths are probed in order after the configured font_path.
// Collections (.ttc) are not supported by the parser and are skipped.
var systemFontPaths = []string{
	"etc/fonts/InterVariable.ttf",
	"etc/fonts/Inter-Regular.ttf",
	"./etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/local/share/fonts/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

var embeddedFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// fontSource is a parsed TrueType font that faces of any size are cut from.
type fontSource struct {
	font *truetype.Font
	path string // empty for the embedded font
}

func (s *fontSource) face(points float64) font.Face {
	return truetype.NewFace(s.font, &truetype.Options{Size: points, Hinting: font.HintingNone})
}

// loadFont returns the first font that parses from configured and the
// system list, falling back to the embedded Go Regular.
func loadFont(configured string) *fontSource {
	candidates := systemFontPaths
	if configured != "" {
		candidates = append([]string{configured}, systemFontPaths...)
	}

	for _, p := range candidates {
		expanded := expandPath(p)
		data, err := os.ReadFile(expanded)
		if err != nil {
			if p == configured {
				logging.LogWarn("Configured font not readable", zap.String("path", expanded), zap.Error(err))
			}
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			logging.LogWarn("Font file exists but failed to load",
				zap.String("path", expanded),
				zap.Error(err))
			continue
		}
		logging.LogDebug("Loaded font", zap.String("path", expanded), zap.Int("size", len(data)))
		return &fontSource{font: f, path: expanded}
	}

	f, err := embeddedFont()
	if err != nil {
		// goregular is compiled in; a parse failure means a broken build
		panic(err)
	}
	logging.LogDebug("No system font found, using embedded Go Regular",
		zap.Int("paths_checked", len(candidates)))
	return &fontSource{font: f}
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
