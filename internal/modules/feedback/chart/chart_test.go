package chart

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"github.com/yungbote/feedback360-backend/internal/modules/feedback/compare"
)

func comparison(groups, perGroup int) compare.Comparison {
	var c compare.Comparison
	for g := 0; g < groups; g++ {
		grp := compare.Group{SectionTitle: "Section"}
		for q := 0; q < perGroup; q++ {
			grp.Rows = append(grp.Rows, compare.Row{
				QuestionText: "Translates company goals and performance targets into clear, actionable plans for their team.",
				OthersScore:  4.3,
				SelfScore:    3.0,
			})
		}
		c.Groups = append(c.Groups, grp)
	}
	return c
}

func TestRenderProducesPNGWithExpectedSize(t *testing.T) {
	r, err := NewRenderer(nil, Config{})
	require.NoError(t, err)

	c := comparison(2, 3)
	out, err := r.Render(context.Background(), "John Doe", c)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	// header 300 + 2 sections*150 + 6 questions*200 + padding 200
	require.Equal(t, 3000, img.Bounds().Dx())
	require.Equal(t, 2000, img.Bounds().Dy())
}

func TestCanvasGrowsWithQuestions(t *testing.T) {
	r, err := NewRenderer(nil, Config{Scale: 1})
	require.NoError(t, err)
	_, small := r.Size(comparison(1, 1))
	_, large := r.Size(comparison(1, 4))
	require.Equal(t, 3*baseQuestionRow, large-small)
}

func TestRenderEmptyComparison(t *testing.T) {
	r, err := NewRenderer(nil, Config{Scale: 1})
	require.NoError(t, err)
	out, err := r.Render(context.Background(), "Nobody", compare.Comparison{})
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestRenderRefusesOversizedCanvas(t *testing.T) {
	r, err := NewRenderer(nil, Config{Scale: 1, MaxHeight: 500})
	require.NoError(t, err)
	out, err := r.Render(context.Background(), "John Doe", comparison(3, 5))
	require.True(t, errors.Is(err, ErrCanvasTooLarge), "err=%v", err)
	require.Nil(t, out)
}

func TestRenderHonoursCancellation(t *testing.T) {
	r, err := NewRenderer(nil, Config{Scale: 1})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := r.Render(ctx, "John Doe", comparison(1, 1))
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, out)
}

func TestNewRendererMissingFontFile(t *testing.T) {
	_, err := NewRenderer(nil, Config{FontPath: "/nonexistent/font.ttf"})
	require.Error(t, err)
}

func TestInvalidFontFallsBackToBasicfont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	r, err := NewRenderer(nil, Config{Scale: 1, FontPath: path})
	require.NoError(t, err)
	require.Nil(t, r.fonts.regular)
	require.Nil(t, r.fonts.bold)
	require.Equal(t, basicfont.Face7x13, r.fonts.face(true, 24))

	out, err := r.Render(context.Background(), "John Doe", comparison(1, 2))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
}

func TestFitTextTruncates(t *testing.T) {
	r, err := NewRenderer(nil, Config{Scale: 1})
	require.NoError(t, err)
	dc := gg.NewContext(10, 10)
	dc.SetFontFace(r.fonts.face(false, 14))

	short := "Short"
	require.Equal(t, short, fitText(dc, short, 1000))

	long := "Clearly defines roles, responsibilities, and behavioral expectations necessary to achieve success."
	got := fitText(dc, long, 200)
	require.True(t, len(got) < len(long))
	require.Contains(t, got, "...")
	w, _ := dc.MeasureString(got)
	require.LessOrEqual(t, w, 200.0)
}

func TestBarFill(t *testing.T) {
	require.Equal(t, 0.0, barFill(0))
	require.Equal(t, 1.0, barFill(5))
	require.InDelta(t, 0.8, barFill(4), 1e-9)
}
