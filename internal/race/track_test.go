package race

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// boxTrack is a w x h white image with a one pixel black border.
func boxTrack(w, h int) *Track {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return NewTrack(img, "box")
}

func TestTrackHitsWall(t *testing.T) {
	tr := boxTrack(100, 60)
	assert.Equal(t, Point{X: 50, Y: 30}, tr.Center())
	assert.False(t, tr.HitsWall(Vec2{X: 50, Y: 30}, 0))
	// Car spans x in [cx-10, cx+10): touching the left border at cx = 10.
	assert.False(t, tr.HitsWall(Vec2{X: 11, Y: 30}, 0))
	assert.True(t, tr.HitsWall(Vec2{X: 10, Y: 30}, 0))
	// Fractions truncate: 10.9 behaves like 10.
	assert.True(t, tr.HitsWall(Vec2{X: 10.9, Y: 30}, 0))
	// Rotated upright the car is only 10 wide.
	assert.False(t, tr.HitsWall(Vec2{X: 10, Y: 30}, 90))
	assert.True(t, tr.HitsWall(Vec2{X: 50, Y: 10}, 90))
	assert.False(t, tr.HitsWall(Vec2{X: 50, Y: 11}, 90))
}

func TestTrackOutsideImageIsNotWall(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	tr := NewTrack(img, "transparent")
	assert.Equal(t, 0, tr.Walls.Count())
	assert.False(t, tr.HitsWall(Vec2{X: -100, Y: -100}, 0))
}

func TestGenerateTrack(t *testing.T) {
	tr := GenerateTrack(FallbackTrackWidth, FallbackTrackHeight)
	require.Equal(t, FallbackTrackWidth, tr.Width())
	require.Equal(t, FallbackTrackHeight, tr.Height())
	assert.Equal(t, "generated", tr.Source)
	// The default spawn sits where the two loops meet, on open asphalt.
	assert.False(t, tr.HitsWall(tr.Center().Vec(), 0))
	assert.False(t, tr.HitsWall(tr.Center().Vec(), 45))
	// Corners and the loop centres are walls.
	assert.True(t, tr.Walls.At(0, 0))
	assert.True(t, tr.Walls.At(FallbackTrackWidth-1, FallbackTrackHeight-1))
	assert.True(t, tr.HitsWall(Vec2{X: FallbackTrackWidth / 4, Y: FallbackTrackHeight / 2}, 0))
	// The border is closed so the car cannot leave the image.
	for x := 0; x < FallbackTrackWidth; x++ {
		require.True(t, tr.Walls.At(x, 0))
		require.True(t, tr.Walls.At(x, FallbackTrackHeight-1))
	}
}

func TestLoadTrack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, boxTrack(64, 32).Image))
	require.NoError(t, f.Close())

	tr, err := LoadTrack(path)
	require.NoError(t, err)
	assert.Equal(t, 64, tr.Width())
	assert.Equal(t, 32, tr.Height())
	assert.Equal(t, 2*64+2*30, tr.Walls.Count())

	_, err = LoadTrack(filepath.Join(dir, "missing.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o600))
	_, err = LoadTrack(bad)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenTrack(t *testing.T) {
	dir := t.TempDir()

	tr, err := OpenTrack(filepath.Join(dir, "track.png"), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "generated", tr.Source)
	assert.Equal(t, FallbackTrackWidth, tr.Width())

	path := filepath.Join(dir, "box.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, boxTrack(40, 20).Image))
	require.NoError(t, f.Close())
	tr, err = OpenTrack(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, tr.Source)
	assert.Equal(t, 40, tr.Width())

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("GIF89a"), 0o600))
	_, err = OpenTrack(bad, nil)
	assert.Error(t, err, "an unreadable image is not silently replaced")
}
