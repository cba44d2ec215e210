package race

import (
	"image"
	"image/color"
	"math"
)

// Silhouette is the car sprite rotated to one heading, together with its solid mask.
type Silhouette struct {
	Angle float64
	Image *image.NRGBA
	Mask  *Mask
}

// Origin returns the top-left corner that centres the silhouette on (cx, cy).
func (s *Silhouette) Origin(cx, cy int) (int, int) {
	return cx - s.Image.Rect.Dx()/2, cy - s.Image.Rect.Dy()/2
}

// NewCarImage draws the unrotated car: a red body facing +x with an orange
// headlight strip along the front edge.
func NewCarImage(body, headlight color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, CarWidth, CarHeight))
	for y := 0; y < CarHeight; y++ {
		for x := 0; x < CarWidth; x++ {
			if x >= CarWidth-HeadlightSize {
				img.SetNRGBA(x, y, headlight)
			} else {
				img.SetNRGBA(x, y, body)
			}
		}
	}
	return img
}

// RotateImage rotates src counter-clockwise by angle degrees into a new image
// large enough to hold the result. Sampling is nearest-neighbour in 16.16 fixed
// point and uncovered pixels are fully transparent. Exact multiples of 90 degrees
// are rotated losslessly.
func RotateImage(src *image.NRGBA, angle float64) *image.NRGBA {
	if math.Mod(angle, 90) == 0 {
		return rotate90(src, int(angle/90))
	}

	rad := angle * math.Pi / 180
	sa, ca := math.Sin(rad), math.Cos(rad)
	w, h := float64(src.Rect.Dx()), float64(src.Rect.Dy())
	cx, cy := ca*w, ca*h
	sx, sy := sa*w, sa*h
	nw := int(math.Max(math.Max(math.Abs(cx+sy), math.Abs(cx-sy)), math.Max(math.Abs(-cx+sy), math.Abs(-cx-sy))))
	nh := int(math.Max(math.Max(math.Abs(sx+cy), math.Abs(sx-cy)), math.Max(math.Abs(-sx+cy), math.Abs(-sx-cy))))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))

	srcW, srcH := src.Rect.Dx(), src.Rect.Dy()
	mid := nh / 2
	xd := (srcW - nw) << 15
	yd := (srcH - nh) << 15
	isin := int(sa * 65536)
	icos := int(ca * 65536)
	ax := (nw << 15) - int(ca*float64((nw-1)<<15))
	ay := (nh << 15) - int(sa*float64((nw-1)<<15))
	xmax := (srcW << 16) - 1
	ymax := (srcH << 16) - 1

	for y := 0; y < nh; y++ {
		dx := ax + isin*(mid-y) + xd
		dy := ay - icos*(mid-y) + yd
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < nw; x++ {
			if dx >= 0 && dy >= 0 && dx <= xmax && dy <= ymax {
				so := (dy>>16)*src.Stride + (dx>>16)*4
				copy(row[x*4:x*4+4], src.Pix[so:so+4])
			}
			dx += icos
			dy += isin
		}
	}
	return dst
}

func rotate90(src *image.NRGBA, turns int) *image.NRGBA {
	turns %= 4
	if turns < 0 {
		turns += 4
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if turns == 0 {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		copy(dst.Pix, src.Pix)
		return dst
	}
	dw, dh := h, w
	if turns == 2 {
		dw, dh = w, h
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			var sx, sy int
			switch turns {
			case 1: // counter-clockwise: the front edge ends up on top
				sx, sy = w-1-y, x
			case 2:
				sx, sy = w-1-x, h-1-y
			case 3:
				sx, sy = y, h-1-x
			}
			so := sy*src.Stride + sx*4
			do := y*dst.Stride + x*4
			copy(dst.Pix[do:do+4], src.Pix[so:so+4])
		}
	}
	return dst
}

const maxSilhouettes = 1024

// SilhouetteCache memoises rotated car silhouettes by heading. Headings only
// change in fixed steps; the cache is dropped once it holds maxSilhouettes.
type SilhouetteCache struct {
	base  *image.NRGBA
	cache map[float64]*Silhouette
}

func NewSilhouetteCache(base *image.NRGBA) *SilhouetteCache {
	return &SilhouetteCache{base: base, cache: make(map[float64]*Silhouette)}
}

// Get returns the silhouette for angle (degrees), building it on first use.
func (c *SilhouetteCache) Get(angle float64) *Silhouette {
	if s, ok := c.cache[angle]; ok {
		return s
	}
	if len(c.cache) >= maxSilhouettes {
		clear(c.cache)
	}
	img := RotateImage(c.base, angle)
	s := &Silhouette{Angle: angle, Image: img, Mask: MaskFromAlpha(img, SilhouetteAlpha)}
	c.cache[angle] = s
	return s
}

// Len returns the number of cached headings.
func (c *SilhouetteCache) Len() int { return len(c.cache) }
