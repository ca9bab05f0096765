package chart

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

// fontSet keeps parsed fonts. Faces are created per render because a
// truetype face caches glyphs and is not safe for concurrent use.
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

// loadFonts falls back to the Go fonts when no path is configured. A configured
// file that is not valid TrueType is replaced by basicfont.
func loadFonts(log *logger.Logger, regularPath, boldPath string) (*fontSet, error) {
	regular, err := parseFont(log, regularPath, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load chart font: %w", err)
	}
	if strings.TrimSpace(boldPath) == "" && strings.TrimSpace(regularPath) != "" {
		boldPath = regularPath
	}
	bold, err := parseFont(log, boldPath, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load chart bold font: %w", err)
	}
	return &fontSet{regular: regular, bold: bold}, nil
}

// parseFont returns a nil font, meaning basicfont, when the TTF does not parse.
func parseFont(log *logger.Logger, path string, fallback []byte) (*truetype.Font, error) {
	data := fallback
	p := strings.TrimSpace(path)
	if p != "" {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		data = raw
	}
	f, err := truetype.Parse(data)
	if err != nil {
		log.Warn("Chart font is not valid TrueType, using basicfont", "path", p, "error", err)
		return nil, nil
	}
	return f, nil
}

func (fs *fontSet) face(bold bool, size float64) font.Face {
	f := fs.regular
	if bold {
		f = fs.bold
	}
	if f == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
