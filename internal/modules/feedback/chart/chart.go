// Package chart rasterizes a self-vs-others comparison into a PNG.
package chart

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"

	"github.com/yungbote/feedback360-backend/internal/modules/feedback/compare"
	"github.com/yungbote/feedback360-backend/internal/modules/feedback/score"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

// ErrCanvasTooLarge is returned when the comparison needs a taller canvas
// than the renderer allows.
var ErrCanvasTooLarge = errors.New("chart canvas too large")

const (
	Title  = "Question-by-Question Comparison"
	Legend = "Scale: 1 (Never) - 2 (Rarely) - 3 (Sometimes) - 4 (Often) - 5 (Always)"
)

// Base layout in unscaled pixels.
const (
	baseWidth         = 1200
	baseHeader        = 120
	baseQuestionRow   = 80
	baseSectionHeader = 60
	basePadding       = 40
	baseBarWidth      = 300
	baseBarHeight     = 20
)

var (
	colorBackground = mustHex("#ffffff")
	colorTitle      = mustHex("#1f2937")
	colorSubtle     = mustHex("#6b7280")
	colorQuestion   = mustHex("#374151")
	colorBand       = mustHex("#f3f4f6")
	colorTrack      = mustHex("#e5e7eb")
	colorOthers     = mustHex("#3b82f6")
	colorSelf       = mustHex("#6b7280")
	colorOthersUp   = mustHex("#059669")
	colorSelfUp     = mustHex("#dc2626")
)

type Config struct {
	Scale        float64
	MaxHeight    int
	FontPath     string
	BoldFontPath string
}

func (c Config) withDefaults() Config {
	if c.Scale <= 0 {
		c.Scale = 2.5
	}
	if c.MaxHeight <= 0 {
		c.MaxHeight = 16000
	}
	return c
}

type Renderer struct {
	log   *logger.Logger
	cfg   Config
	fonts *fontSet
}

func NewRenderer(log *logger.Logger, cfg Config) (*Renderer, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "ChartRenderer")
	cfg = cfg.withDefaults()
	fonts, err := loadFonts(log, cfg.FontPath, cfg.BoldFontPath)
	if err != nil {
		return nil, err
	}
	return &Renderer{log: log, cfg: cfg, fonts: fonts}, nil
}

// Size is the canvas size Render would use for c.
func (r *Renderer) Size(c compare.Comparison) (width, height int) {
	s := r.cfg.Scale
	questions := 0
	for _, g := range c.Groups {
		questions += len(g.Rows)
	}
	w := baseWidth * s
	h := baseHeader*s + float64(len(c.Groups))*baseSectionHeader*s + float64(questions)*baseQuestionRow*s + 2*basePadding*s
	return int(w), int(h)
}

// Render draws the comparison and returns PNG bytes. On any failure no image
// is returned.
func (r *Renderer) Render(ctx context.Context, managerName string, c compare.Comparison) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width, height := r.Size(c)
	if height > r.cfg.MaxHeight {
		return nil, fmt.Errorf("%w: %dpx exceeds %dpx", ErrCanvasTooLarge, height, r.cfg.MaxHeight)
	}

	s := r.cfg.Scale
	w := float64(width)
	padding := basePadding * s

	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackground)
	dc.Clear()

	y := padding
	dc.SetFontFace(r.fonts.face(true, 24*s))
	dc.SetColor(colorTitle)
	dc.DrawStringAnchored(Title, w/2, y+30*s, 0.5, 0)

	dc.SetFontFace(r.fonts.face(false, 16*s))
	dc.SetColor(colorSubtle)
	subtitle := fmt.Sprintf("Compare how %s rates themselves vs. how others rate them on each question", strings.TrimSpace(managerName))
	dc.DrawStringAnchored(fitText(dc, subtitle, w-2*padding), w/2, y+60*s, 0.5, 0)
	y += baseHeader * s

	if len(c.Groups) == 0 {
		dc.SetFontFace(r.fonts.face(false, 14*s))
		dc.SetColor(colorQuestion)
		dc.DrawStringAnchored("No comparison data available", w/2, y, 0.5, 0)
	}

	for _, g := range c.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.drawSection(dc, g.SectionTitle, y, w)
		y += baseSectionHeader * s
		for _, row := range g.Rows {
			r.drawRow(dc, row, y, w)
			y += baseQuestionRow * s
		}
	}

	y += 20 * s
	dc.SetFontFace(r.fonts.face(false, 12*s))
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(Legend, w/2, y, 0.5, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	r.log.Debug("Rendered comparison chart", "manager_name", managerName, "width", width, "height", height, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// RenderBase64 is Render encoded as standard base64, as embedded in report payloads.
func (r *Renderer) RenderBase64(ctx context.Context, managerName string, c compare.Comparison) (string, error) {
	png, err := r.Render(ctx, managerName, c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func (r *Renderer) drawSection(dc *gg.Context, title string, y, w float64) {
	s := r.cfg.Scale
	padding := basePadding * s
	dc.SetColor(colorBand)
	dc.DrawRectangle(padding, y, w-2*padding, baseSectionHeader*s)
	dc.Fill()

	dc.SetFontFace(r.fonts.face(true, 18*s))
	dc.SetColor(colorTitle)
	dc.DrawString(title, padding+20*s, y+35*s)
}

func (r *Renderer) drawRow(dc *gg.Context, row compare.Row, y, w float64) {
	s := r.cfg.Scale
	padding := basePadding * s
	barY := y + 35*s
	barW := baseBarWidth * s
	othersX := padding + 20*s
	selfX := othersX + barW + 40*s
	scoresX := othersX + 2*barW + 100*s

	dc.SetFontFace(r.fonts.face(false, 14*s))
	dc.SetColor(colorQuestion)
	dc.DrawString(fitText(dc, row.QuestionText, scoresX-othersX-20*s), othersX, y+20*s)

	r.drawBar(dc, "Others' Assessment", row.OthersScore, othersX, barY, colorOthers)
	r.drawBar(dc, "Self Assessment", row.SelfScore, selfX, barY, colorSelf)

	dc.SetFontFace(r.fonts.face(true, 14*s))
	dc.SetColor(colorTitle)
	dc.DrawString(fmt.Sprintf("Others: %.1f", row.OthersScore), scoresX, y+15*s)
	dc.DrawString(fmt.Sprintf("Self: %.1f", row.SelfScore), scoresX, y+35*s)

	if row.Callout() {
		dc.SetFontFace(r.fonts.face(false, 12*s))
		label := fmt.Sprintf("+%.1f Self Higher", row.Difference())
		dc.SetColor(colorSelfUp)
		if row.OthersScore > row.SelfScore {
			label = fmt.Sprintf("+%.1f Others Higher", row.Difference())
			dc.SetColor(colorOthersUp)
		}
		dc.DrawString(label, scoresX, y+55*s)
	}
}

func (r *Renderer) drawBar(dc *gg.Context, label string, value, x, y float64, fill color.Color) {
	s := r.cfg.Scale
	barW := baseBarWidth * s
	barH := baseBarHeight * s

	dc.SetFontFace(r.fonts.face(false, 12*s))
	dc.SetColor(colorSubtle)
	dc.DrawString(label, x, y-5*s)

	dc.SetColor(colorTrack)
	dc.DrawRectangle(x, y, barW, barH)
	dc.Fill()

	filled := barFill(value) * barW
	if filled > 0 {
		dc.SetColor(fill)
		dc.DrawRectangle(x, y, filled, barH)
		dc.Fill()
	}
	if filled > 30*s {
		dc.SetFontFace(r.fonts.face(true, 12*s))
		dc.SetColor(color.White)
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", value), x+filled-15*s, y+14*s, 0.5, 0)
	}
}

// barFill is the filled fraction of a bar for a score on the 1-5 scale.
func barFill(value float64) float64 {
	switch {
	case value <= 0:
		return 0
	case value >= score.MaxScore:
		return 1
	}
	return value / score.MaxScore
}

// fitText truncates text with an ellipsis so it fits maxWidth using the
// current font face.
func fitText(dc *gg.Context, text string, maxWidth float64) string {
	if w, _ := dc.MeasureString(text); w <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "..."
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return "..."
}

func mustHex(s string) color.NRGBA {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || len(raw) != 3 {
		panic("chart: invalid color " + s)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}
}
