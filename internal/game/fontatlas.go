package game

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const fontGlyphs = FontLastRune - FontFirstRune + 1

// FontAtlas is printable ASCII rendered white on transparent into a grid of
// equal cells. Glyphs are tinted when drawn.
type FontAtlas struct {
	Image   *image.NRGBA
	CellW   int
	CellH   int
	OriginX int // pen position inside a cell
	Ascent  int
	Advance [fontGlyphs]float64
}

// BuildFontAtlas rasterises the TrueType/OpenType font ttf at size pixels.
func BuildFontAtlas(ttf []byte, size float64) (*FontAtlas, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	a := &FontAtlas{}
	m := face.Metrics()
	a.Ascent = m.Ascent.Ceil()
	a.CellH = (m.Ascent + m.Descent).Ceil()

	minX, maxX := 0, 0
	for i := range fontGlyphs {
		r := rune(FontFirstRune + i)
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		a.Advance[i] = float64(adv) / 64
		b, _, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		minX = min(minX, b.Min.X.Floor())
		maxX = max(maxX, b.Max.X.Ceil(), adv.Ceil())
	}
	a.OriginX = -minX
	a.CellW = a.OriginX + maxX + 1

	rows := (fontGlyphs + FontCols - 1) / FontCols
	a.Image = image.NewNRGBA(image.Rect(0, 0, a.CellW*FontCols, a.CellH*rows))
	d := &font.Drawer{Dst: a.Image, Src: image.White, Face: face}
	for i := range fontGlyphs {
		col, row := i%FontCols, i/FontCols
		d.Dot = fixed.P(col*a.CellW+a.OriginX, row*a.CellH+a.Ascent)
		d.DrawString(string(rune(FontFirstRune + i)))
	}
	return a, nil
}

// Cell returns the atlas rectangle of r in texture coordinates.
func (a *FontAtlas) Cell(r rune) (u0, v0, u1, v1 float32, ok bool) {
	if r < FontFirstRune || r > FontLastRune {
		return 0, 0, 0, 0, false
	}
	i := int(r - FontFirstRune)
	col, row := i%FontCols, i/FontCols
	w := float32(a.Image.Rect.Dx())
	h := float32(a.Image.Rect.Dy())
	u0 = float32(col*a.CellW) / w
	v0 = float32(row*a.CellH) / h
	u1 = float32((col+1)*a.CellW) / w
	v1 = float32((row+1)*a.CellH) / h
	return u0, v0, u1, v1, true
}

// AdvanceOf is the pen advance for r; unknown runes advance like a space.
func (a *FontAtlas) AdvanceOf(r rune) float64 {
	if r < FontFirstRune || r > FontLastRune {
		return a.Advance[0]
	}
	return a.Advance[r-FontFirstRune]
}

// TextWidth returns the width in atlas pixels of the longest line of text.
func (a *FontAtlas) TextWidth(text string) int {
	line, widest := 0.0, 0.0
	for _, r := range text {
		if r == '\n' {
			widest = math.Max(widest, line)
			line = 0
			continue
		}
		line += a.AdvanceOf(r)
	}
	return int(math.Ceil(math.Max(widest, line)))
}
