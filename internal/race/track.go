package race

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"go.uber.org/zap"
)

// Track is the static race surface: the background image and the wall mask
// derived from it. It is read-only after construction.
type Track struct {
	Image  *image.NRGBA
	Walls  *Mask
	Source string

	cars *SilhouetteCache
}

// NewTrack derives the wall mask from img. Near-black, non-transparent pixels are walls.
func NewTrack(img image.Image, source string) *Track {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Rect, img, b.Min, draw.Src)
	}
	walls := MaskFromThreshold(nrgba,
		color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		color.NRGBA{R: WallThreshold, G: WallThreshold, B: WallThreshold, A: 255})
	return &Track{
		Image:  nrgba,
		Walls:  walls,
		Source: source,
		cars:   NewSilhouetteCache(NewCarImage(Palette.CarBody.NRGBA(), Palette.Headlight.NRGBA())),
	}
}

// LoadTrack decodes a track image from disk. A missing file yields an error
// wrapping os.ErrNotExist.
func LoadTrack(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode track %s: %w", path, err)
	}
	return NewTrack(img, path), nil
}

// OpenTrack loads the track image at path. When the file does not exist a
// generated fallback track is returned instead; any other failure is an error.
func OpenTrack(path string, log *zap.Logger) (*Track, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t, err := LoadTrack(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("track image not found, using generated track",
			zap.String("file", path),
			zap.Int("width", FallbackTrackWidth), zap.Int("height", FallbackTrackHeight))
		return GenerateTrack(FallbackTrackWidth, FallbackTrackHeight), nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("track loaded", zap.String("file", path),
		zap.Int("width", t.Width()), zap.Int("height", t.Height()),
		zap.Int("wallPixels", t.Walls.Count()))
	return t, nil
}

// GenerateTrack draws a figure-eight circuit of w x h pixels. The two loops
// touch at the image centre, so the default spawn lies on the asphalt.
func GenerateTrack(w, h int) *Track {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	halfWidth := math.Min(float64(w), float64(h)) * 0.0625
	radius := math.Min(float64(w)/4, float64(h)/2) - halfWidth*1.5
	left := Vec2{X: cx - radius, Y: cy}
	right := Vec2{X: cx + radius, Y: cy}
	const kerb = 3.0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			d := math.Min(math.Abs(p.Dist(left)-radius), math.Abs(p.Dist(right)-radius))
			var col RGB
			switch {
			case d >= halfWidth:
				col = Palette.Wall
			case d >= halfWidth-kerb:
				col = Palette.Kerb
			default:
				col = Palette.Asphalt
			}
			img.SetNRGBA(x, y, col.NRGBA())
		}
	}
	return NewTrack(img, "generated")
}

func (t *Track) Width() int  { return t.Image.Rect.Dx() }
func (t *Track) Height() int { return t.Image.Rect.Dy() }

// Center is the default spawn point.
func (t *Track) Center() Point {
	return Point{X: t.Width() / 2, Y: t.Height() / 2}
}

// Silhouette returns the car silhouette for a heading in degrees.
func (t *Track) Silhouette(angle float64) *Silhouette {
	return t.cars.Get(angle)
}

// HitsWall reports whether the car, centred at pos (truncated to whole pixels)
// and rotated by angle, overlaps any wall pixel. Parts of the car outside the
// image never collide.
func (t *Track) HitsWall(pos Vec2, angle float64) bool {
	s := t.cars.Get(angle)
	ox, oy := s.Origin(int(pos.X), int(pos.Y))
	return t.Walls.Overlap(s.Mask, ox, oy)
}
