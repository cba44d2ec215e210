package game

import "math"

// Camera maps track pixels onto the framebuffer. The whole track is always
// visible, centred and scaled uniformly.
type Camera struct {
	X, Y float64 // track-pixel space, camera centre
	Zoom float64 // framebuffer pixels per track pixel

	fbW, fbH int
}

// FitCamera returns the camera showing a trackW x trackH track in an fbW x fbH
// framebuffer.
func FitCamera(trackW, trackH, fbW, fbH int) Camera {
	zoom := 1.0
	if trackW > 0 && trackH > 0 && fbW > 0 && fbH > 0 {
		zoom = math.Min(float64(fbW)/float64(trackW), float64(fbH)/float64(trackH))
	}
	return Camera{
		X:    float64(trackW) / 2,
		Y:    float64(trackH) / 2,
		Zoom: zoom,
		fbW:  fbW,
		fbH:  fbH,
	}
}

// TrackToScreen converts a track position to framebuffer pixels (origin top-left).
func (c Camera) TrackToScreen(x, y float64) (float64, float64) {
	return (x-c.X)*c.Zoom + float64(c.fbW)*0.5, (y-c.Y)*c.Zoom + float64(c.fbH)*0.5
}

// ScreenToTrack is the inverse of TrackToScreen.
func (c Camera) ScreenToTrack(sx, sy float64) (float64, float64) {
	return c.X + (sx-float64(c.fbW)*0.5)/c.Zoom, c.Y + (sy-float64(c.fbH)*0.5)/c.Zoom
}

// WindowSize picks the initial window size for a track: the track's own size,
// scaled up when it is smaller than MinWindow on either edge.
func WindowSize(trackW, trackH int) (int, int) {
	if trackW <= 0 || trackH <= 0 {
		return MinWindow, MinWindow
	}
	scale := 1.0
	if m := math.Min(float64(trackW), float64(trackH)); m < MinWindow {
		scale = math.Ceil(MinWindow / m)
	}
	return int(float64(trackW) * scale), int(float64(trackH) * scale)
}
