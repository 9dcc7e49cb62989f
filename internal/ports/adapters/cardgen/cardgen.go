// Package cardgen rasterizes placeholder title cards in-process, for hosts
// without ImageMagick. The layout mirrors the convert-based renderer: a
// vertical gradient, the title above the center and the description below it.
package cardgen

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/forPelevin/shortgen/internal/types"
)

var (
	gradientTop    = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	gradientBottom = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	titleColor     = color.RGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
	captionColor   = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
)

const (
	titlePoints   = 54
	captionPoints = 42
	titleOffsetY  = -650
	captionOffset = 200
	textWidth     = 0.9 // usable fraction of the card width
)

type Renderer struct {
	face font.Face
}

func New() *Renderer {
	return &Renderer{face: basicfont.Face7x13}
}

func (r *Renderer) RenderTitleCard(ctx context.Context, card types.TitleCard, outPNG string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if card.Width <= 0 || card.Height <= 0 {
		return fmt.Errorf("cardgen: invalid size %dx%d", card.Width, card.Height)
	}
	img := r.Render(card)

	f, err := os.Create(outPNG)
	if err != nil {
		return fmt.Errorf("cardgen: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("cardgen encode: %w", err)
	}
	return f.Close()
}

func (r *Renderer) Render(card types.TitleCard) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, card.Width, card.Height))
	fillGradient(img, gradientTop, gradientBottom)

	cy := card.Height / 2
	r.drawBlock(img, card.Title, titleColor, titlePoints, cy+titleOffsetY)
	r.drawBlock(img, card.Caption, captionColor, captionPoints, cy+captionOffset)
	return img
}

// drawBlock draws wrapped text centered horizontally, with the block's
// vertical center at cy. Glyphs are rendered at the face's native size and
// scaled up to the requested point size.
func (r *Renderer) drawBlock(dst *image.RGBA, text string, c color.Color, points, cy int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	m := r.face.Metrics()
	lineH := m.Height.Ceil()
	scale := float64(points) / float64(lineH)
	glyphW := font.MeasureString(r.face, "M").Ceil()

	maxChars := int(float64(dst.Bounds().Dx()) * textWidth / (float64(glyphW) * scale))
	lines := wrap(text, maxChars)

	dh := int(float64(lineH) * scale)
	y := cy - dh*len(lines)/2
	for _, ln := range lines {
		src := r.rasterize(ln, c)
		dw := int(float64(src.Bounds().Dx()) * scale)
		x := (dst.Bounds().Dx() - dw) / 2
		xdraw.BiLinear.Scale(dst, image.Rect(x, y, x+dw, y+dh), src, src.Bounds(), xdraw.Over, nil)
		y += dh
	}
}

func (r *Renderer) rasterize(s string, c color.Color) *image.RGBA {
	m := r.face.Metrics()
	w := font.MeasureString(r.face, s).Ceil()
	if w <= 0 {
		w = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, m.Height.Ceil()))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(s)
	return img
}

func fillGradient(img *image.RGBA, top, bottom color.RGBA) {
	b := img.Bounds()
	h := b.Dy()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y-b.Min.Y) / float64(h-1)
		}
		row := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 0xff,
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, row)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// wrap greedily packs words into lines of at most maxChars runes.
// A single word longer than maxChars gets its own line.
func wrap(s string, maxChars int) []string {
	words := strings.Fields(s)
	if maxChars <= 0 || len(words) == 0 {
		return words
	}
	var lines []string
	cur := ""
	for _, w := range words {
		switch {
		case cur == "":
			cur = w
		case len([]rune(cur))+1+len([]rune(w)) <= maxChars:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	return append(lines, cur)
}
