package race

import (
	"image"
	"image/color"
	"math/bits"
)

// Mask is a fixed-size bitset of solid pixels, one row of 64-bit words per scanline.
type Mask struct {
	W, H   int
	stride int // words per row
	bits   []uint64
}

func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	stride := (w + 63) / 64
	return &Mask{W: w, H: h, stride: stride, bits: make([]uint64, stride*h)}
}

// Set marks (x, y) as solid. Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.bits[y*m.stride+x>>6] |= 1 << uint(x&63)
}

// At reports whether (x, y) is solid. Out-of-range coordinates are empty.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.stride+x>>6]&(1<<uint(x&63)) != 0
}

// Count returns the number of solid pixels.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Overlap reports whether any solid pixel of o, placed with its top-left corner
// at (offX, offY) in m's coordinates, coincides with a solid pixel of m.
// Only the intersecting rectangle is scanned.
func (m *Mask) Overlap(o *Mask, offX, offY int) bool {
	x0 := max(0, offX)
	y0 := max(0, offY)
	x1 := min(m.W, offX+o.W)
	y1 := min(m.H, offY+o.H)
	if x0 >= x1 || y0 >= y1 {
		return false
	}
	for y := y0; y < y1; y++ {
		oy := y - offY
		for x := x0; x < x1; {
			// Compare up to one word of m at a time.
			n := min(64-(x&63), x1-x)
			mw := m.bits[y*m.stride+x>>6] >> uint(x&63)
			ow := o.word(x-offX, oy, n)
			if n < 64 {
				mw &= (1 << uint(n)) - 1
			}
			if mw&ow != 0 {
				return true
			}
			x += n
		}
	}
	return false
}

// word extracts n (<=64) bits of row y starting at column x, low bit first.
func (m *Mask) word(x, y, n int) uint64 {
	row := m.bits[y*m.stride : (y+1)*m.stride]
	i := x >> 6
	sh := uint(x & 63)
	w := row[i] >> sh
	if sh != 0 && i+1 < len(row) {
		w |= row[i+1] << (64 - sh)
	}
	if n < 64 {
		w &= (1 << uint(n)) - 1
	}
	return w
}

// MaskFromThreshold marks every pixel whose colour lies strictly within
// threshold of ref on each channel as solid. Alpha counts as a channel.
func MaskFromThreshold(img image.Image, ref, threshold color.NRGBA) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if within(c.R, ref.R, threshold.R) && within(c.G, ref.G, threshold.G) &&
				within(c.B, ref.B, threshold.B) && within(c.A, ref.A, threshold.A) {
				m.Set(x-b.Min.X, y-b.Min.Y)
			}
		}
	}
	return m
}

// MaskFromAlpha marks every pixel with alpha above threshold as solid.
func MaskFromAlpha(img *image.NRGBA, threshold uint8) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] > threshold {
				m.Set(x, y)
			}
		}
	}
	return m
}

func within(v, ref, threshold uint8) bool {
	d := int(v) - int(ref)
	if d < 0 {
		d = -d
	}
	return d < int(threshold)
}
