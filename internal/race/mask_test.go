package race

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y)
		}
	}
	return m
}

func TestMaskSetAt(t *testing.T) {
	m := NewMask(130, 3)
	for _, x := range []int{0, 63, 64, 127, 129} {
		m.Set(x, 1)
	}
	m.Set(-1, 0)
	m.Set(130, 0)
	m.Set(0, 3)

	assert.Equal(t, 5, m.Count())
	assert.True(t, m.At(63, 1))
	assert.True(t, m.At(64, 1))
	assert.True(t, m.At(129, 1))
	assert.False(t, m.At(65, 1))
	assert.False(t, m.At(63, 0))
	assert.False(t, m.At(-1, 1))
	assert.False(t, m.At(130, 1))
}

func TestMaskOverlap(t *testing.T) {
	wall := NewMask(200, 100)
	wall.Set(100, 50)
	wall.Set(170, 10)
	car := rectMask(20, 10)

	tests := []struct {
		name       string
		offX, offY int
		want       bool
	}{
		{name: "covers pixel", offX: 90, offY: 45, want: true},
		{name: "pixel on top-left corner", offX: 100, offY: 50, want: true},
		{name: "pixel on bottom-right corner", offX: 81, offY: 41, want: true},
		{name: "just right of pixel", offX: 101, offY: 45, want: false},
		{name: "just below pixel", offX: 90, offY: 51, want: false},
		{name: "crosses word boundary", offX: 60, offY: 5, want: true},
		{name: "straddles word boundary miss", offX: 55, offY: 20, want: false},
		{name: "negative offset", offX: -10, offY: -5, want: false},
		{name: "entirely outside", offX: 500, offY: 500, want: false},
		{name: "partly outside right edge", offX: 190, offY: 95, want: false},
	}
	wall.Set(70, 10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wall.Overlap(car, tt.offX, tt.offY))
		})
	}
}

func TestMaskOverlapNegativeOffsetHit(t *testing.T) {
	wall := NewMask(50, 50)
	wall.Set(0, 0)
	car := rectMask(20, 10)
	assert.True(t, wall.Overlap(car, -19, -9))
	assert.False(t, wall.Overlap(car, -20, -9))
}

func TestMaskOverlapMatchesBruteForce(t *testing.T) {
	r := NewRand(42)
	wall := NewMask(150, 40)
	for range 300 {
		wall.Set(int(r.RangeF(0, 150)), int(r.RangeF(0, 40)))
	}
	sprite := NewMask(70, 9)
	for range 40 {
		sprite.Set(int(r.RangeF(0, 70)), int(r.RangeF(0, 9)))
	}
	brute := func(ox, oy int) bool {
		for y := 0; y < sprite.H; y++ {
			for x := 0; x < sprite.W; x++ {
				if sprite.At(x, y) && wall.At(x+ox, y+oy) {
					return true
				}
			}
		}
		return false
	}
	for oy := -10; oy <= 42; oy += 3 {
		for ox := -71; ox <= 151; ox += 5 {
			require.Equal(t, brute(ox, oy), wall.Overlap(sprite, ox, oy), "offset %d,%d", ox, oy)
		}
	}
}

func TestMaskFromThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 19, G: 19, B: 19, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 20, G: 0, B: 0, A: 255})
	img.SetNRGBA(3, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})
	img.SetNRGBA(4, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 1})
	img.SetNRGBA(5, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	m := MaskFromThreshold(img,
		color.NRGBA{A: 255},
		color.NRGBA{R: WallThreshold, G: WallThreshold, B: WallThreshold, A: 255})

	got := make([]bool, 6)
	for x := range got {
		got[x] = m.At(x, 0)
	}
	assert.Equal(t, []bool{true, true, false, false, true, false}, got)
}

func TestMaskFromAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 127})
	img.SetNRGBA(1, 0, color.NRGBA{A: 128})
	img.SetNRGBA(2, 0, color.NRGBA{A: 255})
	m := MaskFromAlpha(img, SilhouetteAlpha)
	assert.False(t, m.At(0, 0))
	assert.True(t, m.At(1, 0))
	assert.True(t, m.At(2, 0))
}
