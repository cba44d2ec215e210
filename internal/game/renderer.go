package game

import (
	"fmt"
	"image"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"racer/internal/race"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	// Quad program: track, car, gate strokes.
	quadProg uint32
	quadVAO  uint32
	quadVBO  uint32

	uOrigin     int32
	uSize       int32
	uRotation   int32
	uCamera     int32
	uZoom       int32
	uResolution int32
	uTex        int32
	uTint       int32

	// Spark program (additive point sprites).
	sparkProg uint32
	sparkVAO  uint32
	sparkVBO  uint32

	spUCamera     int32
	spUZoom       int32
	spUResolution int32

	// Textures.
	trackTex uint32
	carTex   uint32
	whiteTex uint32

	trackW, trackH int
	car            *race.Silhouette // silhouette currently in carTex

	// Font/text rendering.
	fonts        [fontKinds]glFont
	textProg     uint32
	textVAO      uint32
	textVBO      uint32
	textURes     int32
	textUFontTex int32
}

func NewRenderer() (*Renderer, error) {
	quadProg, err := linkProgram(quadVertSrc, quadFragSrc)
	if err != nil {
		return nil, fmt.Errorf("quad program: %w", err)
	}
	sparkProg, err := linkProgram(sparkVertSrc, sparkFragSrc)
	if err != nil {
		gl.DeleteProgram(quadProg)
		return nil, fmt.Errorf("spark program: %w", err)
	}

	r := &Renderer{
		quadProg:  quadProg,
		sparkProg: sparkProg,
	}

	// Quad VAO/VBO: a unit quad (6 vertices, 2 triangles).
	var qVAO, qVBO uint32
	gl.GenVertexArrays(1, &qVAO)
	gl.GenBuffers(1, &qVBO)
	gl.BindVertexArray(qVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, qVBO)

	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	r.quadVAO = qVAO
	r.quadVBO = qVBO

	gl.UseProgram(quadProg)
	r.uOrigin = gl.GetUniformLocation(quadProg, gl.Str("uOrigin\x00"))
	r.uSize = gl.GetUniformLocation(quadProg, gl.Str("uSize\x00"))
	r.uRotation = gl.GetUniformLocation(quadProg, gl.Str("uRotation\x00"))
	r.uCamera = gl.GetUniformLocation(quadProg, gl.Str("uCamera\x00"))
	r.uZoom = gl.GetUniformLocation(quadProg, gl.Str("uZoom\x00"))
	r.uResolution = gl.GetUniformLocation(quadProg, gl.Str("uResolution\x00"))
	r.uTex = gl.GetUniformLocation(quadProg, gl.Str("uTex\x00"))
	r.uTint = gl.GetUniformLocation(quadProg, gl.Str("uTint\x00"))
	gl.Uniform1i(r.uTex, 0)
	gl.Uniform4f(r.uTint, 1, 1, 1, 1)

	// Spark VAO/VBO: streaming buffer for point sprites.
	// Each sprite: 8 floats (x, y, size, r, g, b, a, rotation).
	var sVAO, sVBO uint32
	gl.GenVertexArrays(1, &sVAO)
	gl.GenBuffers(1, &sVBO)
	gl.BindVertexArray(sVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, sVBO)

	stride := int32(8 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxSpriteRender*int(stride), nil, gl.STREAM_DRAW)
	// aWorldPos (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	// aSize (float)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(2*4))
	// aColor (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(3*4))
	// aRotation (float)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, glOffset(7*4))
	r.sparkVAO = sVAO
	r.sparkVBO = sVBO

	gl.UseProgram(sparkProg)
	r.spUCamera = gl.GetUniformLocation(sparkProg, gl.Str("uCamera\x00"))
	r.spUZoom = gl.GetUniformLocation(sparkProg, gl.Str("uZoom\x00"))
	r.spUResolution = gl.GetUniformLocation(sparkProg, gl.Str("uResolution\x00"))

	// 1x1 white texture for untextured strokes.
	white := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	white.Pix[0], white.Pix[1], white.Pix[2], white.Pix[3] = 255, 255, 255, 255
	uploadTexture(&r.whiteTex, white, gl.NEAREST)

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.quadVBO, r.sparkVBO, r.textVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.quadVAO, r.sparkVAO, r.textVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.quadProg, r.sparkProg, r.textProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	for _, id := range []uint32{r.trackTex, r.carTex, r.whiteTex} {
		if id != 0 {
			gl.DeleteTextures(1, &id)
		}
	}
	for i := range r.fonts {
		if r.fonts[i].tex != 0 {
			gl.DeleteTextures(1, &r.fonts[i].tex)
		}
	}
}

// uploadTexture creates *tex on first use and (re)uploads img into it.
func uploadTexture(tex *uint32, img *image.NRGBA, filter int32) {
	if *tex == 0 {
		gl.GenTextures(1, tex)
	}
	gl.BindTexture(gl.TEXTURE_2D, *tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

// SetTrack uploads the track background.
func (r *Renderer) SetTrack(t *race.Track) {
	uploadTexture(&r.trackTex, t.Image, gl.NEAREST)
	r.trackW, r.trackH = t.Width(), t.Height()
}

func (r *Renderer) BeginFrame(cam Camera, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.quadProg)
	gl.BindVertexArray(r.quadVAO)

	gl.Uniform2f(r.uCamera, float32(cam.X), float32(cam.Y))
	gl.Uniform1f(r.uZoom, float32(cam.Zoom))
	gl.Uniform2f(r.uResolution, float32(fbW), float32(fbH))
	gl.Uniform1f(r.uRotation, 0)
	gl.Uniform4f(r.uTint, 1, 1, 1, 1)

	gl.ActiveTexture(gl.TEXTURE0)
}

// drawQuad draws the bound texture over the rectangle at origin with the given
// size, rotated by rot radians (clockwise on screen) about its centre.
func (r *Renderer) drawQuad(tex uint32, x, y, w, h, rot float64, tint [4]float32) {
	gl.UseProgram(r.quadProg)
	gl.BindVertexArray(r.quadVAO)
	gl.Uniform2f(r.uOrigin, float32(x), float32(y))
	gl.Uniform2f(r.uSize, float32(w), float32(h))
	gl.Uniform1f(r.uRotation, float32(rot))
	gl.Uniform4f(r.uTint, tint[0], tint[1], tint[2], tint[3])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

var opaque = [4]float32{1, 1, 1, 1}

// DrawTrack draws the background image covering the whole track.
func (r *Renderer) DrawTrack() {
	if r.trackTex == 0 {
		return
	}
	r.drawQuad(r.trackTex, 0, 0, float64(r.trackW), float64(r.trackH), 0, opaque)
}

// DrawLines strokes each line as a rotated rectangle.
func (r *Renderer) DrawLines(lines []Line) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	for _, l := range lines {
		d := l.B.Sub(l.A)
		length := math.Max(d.Len(), l.Width)
		mid := l.A.Add(l.B).Scale(0.5)
		cr, cg, cb := l.Color.Floats()
		r.drawQuad(r.whiteTex,
			mid.X-length/2, mid.Y-l.Width/2, length, l.Width,
			math.Atan2(d.Y, d.X), [4]float32{cr, cg, cb, 1})
	}
	gl.Disable(gl.BLEND)
}

// DrawCar draws the car silhouette at the same pixel placement the wall test uses.
func (r *Renderer) DrawCar(t *race.Track, car *race.Car) {
	s := t.Silhouette(car.Angle)
	if s != r.car {
		uploadTexture(&r.carTex, s.Image, gl.NEAREST)
		r.car = s
	}
	ox, oy := s.Origin(int(car.Pos.X), int(car.Pos.Y))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	r.drawQuad(r.carTex, float64(ox), float64(oy),
		float64(s.Image.Rect.Dx()), float64(s.Image.Rect.Dy()), 0, opaque)
	gl.Disable(gl.BLEND)
}

// DrawSparks renders point sprites with additive blending and radial falloff.
// buf format: [x, y, size, r, g, b, a, rotation] * N.
func (r *Renderer) DrawSparks(buf []float32, cam Camera, fbW, fbH int) {
	if len(buf) == 0 {
		return
	}
	count := len(buf) / 8
	if count > MaxSpriteRender {
		count = MaxSpriteRender
	}
	gl.UseProgram(r.sparkProg)
	gl.BindVertexArray(r.sparkVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.sparkVBO)
	gl.Uniform2f(r.spUCamera, float32(cam.X), float32(cam.Y))
	gl.Uniform1f(r.spUZoom, float32(cam.Zoom))
	gl.Uniform2f(r.spUResolution, float32(fbW), float32(fbH))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*8*4, gl.Ptr(buf))
	gl.DrawArrays(gl.POINTS, 0, int32(count))
	gl.Disable(gl.BLEND)
}
