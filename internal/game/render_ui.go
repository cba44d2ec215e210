package game

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"racer/internal/race"
)

type glFont struct {
	atlas *FontAtlas
	tex   uint32
	buf   []float32
}

var fontFaces = [fontKinds]struct {
	ttf  []byte
	size float64
}{
	FontTimer: {ttf: gomonobold.TTF, size: TimerFontSize},
	FontLabel: {ttf: gobold.TTF, size: LabelFontSize},
	FontHelp:  {ttf: goregular.TTF, size: HelpFontSize},
}

// InitFonts bakes the HUD faces at zoom framebuffer pixels per track pixel and
// sets up the text rendering pipeline.
func (r *Renderer) InitFonts(zoom float64) error {
	for k, face := range fontFaces {
		atlas, err := BuildFontAtlas(face.ttf, face.size*zoom)
		if err != nil {
			return fmt.Errorf("font %d: %w", k, err)
		}
		r.fonts[k].atlas = atlas
		uploadTexture(&r.fonts[k].tex, atlas.Image, gl.LINEAR)
	}

	prog, err := linkProgram(textVertSrc, textFragSrc)
	if err != nil {
		return fmt.Errorf("text program: %w", err)
	}
	r.textProg = prog
	gl.UseProgram(prog)
	r.textURes = gl.GetUniformLocation(prog, gl.Str("uResolution\x00"))
	r.textUFontTex = gl.GetUniformLocation(prog, gl.Str("uFontTex\x00"))
	gl.Uniform1i(r.textUFontTex, 2) // texture unit 2

	// Text VAO/VBO: per-vertex pos(2) + uv(2) + color(4) = 8 floats.
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	stride := int32(8 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, 512*6*int(stride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0) // aPos
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aUV
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, glOffset(2*4))
	gl.EnableVertexAttribArray(2) // aColor
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(4*4))

	r.textVAO = vao
	r.textVBO = vbo
	gl.BindVertexArray(0)
	return nil
}

// DrawString queues text with its top-left corner at framebuffer pixel (sx, sy).
func (r *Renderer) DrawString(kind FontKind, text string, sx, sy float64, col race.RGB) {
	f := &r.fonts[kind]
	a := f.atlas
	if a == nil {
		return
	}
	cr, cg, cb := col.Floats()
	w, h := float32(a.CellW), float32(a.CellH)
	x := math.Round(sx)
	y := float32(math.Round(sy))
	for _, ch := range text {
		if u0, v0, u1, v1, ok := a.Cell(ch); ok {
			x0 := float32(x) - float32(a.OriginX)
			// Two triangles: TL, TR, BL then TR, BR, BL.
			f.buf = append(f.buf,
				x0, y, u0, v0, cr, cg, cb, 1,
				x0+w, y, u1, v0, cr, cg, cb, 1,
				x0, y+h, u0, v1, cr, cg, cb, 1,
				x0+w, y, u1, v0, cr, cg, cb, 1,
				x0+w, y+h, u1, v1, cr, cg, cb, 1,
				x0, y+h, u0, v1, cr, cg, cb, 1,
			)
		}
		x += a.AdvanceOf(ch)
	}
}

// DrawText queues HUD items positioned in track pixels.
func (r *Renderer) DrawText(items []TextItem, cam Camera) {
	for _, it := range items {
		sx, sy := cam.TrackToScreen(it.X, it.Y)
		r.DrawString(it.Font, it.Text, sx, sy, it.Color)
	}
}

// FlushText draws all buffered text quads and clears the buffers.
func (r *Renderer) FlushText(fbW, fbH int) {
	gl.UseProgram(r.textProg)
	gl.BindVertexArray(r.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
	gl.Uniform2f(r.textURes, float32(fbW), float32(fbH))

	gl.ActiveTexture(gl.TEXTURE2)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	for i := range r.fonts {
		f := &r.fonts[i]
		if len(f.buf) == 0 {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, f.tex)
		count := len(f.buf) / 8
		gl.BufferData(gl.ARRAY_BUFFER, len(f.buf)*4, gl.Ptr(f.buf), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
		f.buf = f.buf[:0]
	}

	gl.Disable(gl.BLEND)
	gl.ActiveTexture(gl.TEXTURE0)
}
