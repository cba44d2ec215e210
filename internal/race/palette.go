package race

import "image/color"

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Floats returns the colour as normalised floats for GL uniforms and buffers.
func (c RGB) Floats() (float32, float32, float32) {
	return float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0
}

func (c RGB) Add(dr, dg, db int) RGB {
	return RGB{R: addU8(c.R, dr), G: addU8(c.G, dg), B: addU8(c.B, db)}
}

func addU8(v uint8, d int) uint8 {
	n := int(v) + d
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

var Palette = struct {
	CarBody     RGB
	Headlight   RGB
	GateNext    RGB
	GateOther   RGB
	GatePending RGB
	Timer       RGB
	Best        RGB
	Last        RGB
	Help        RGB
	Wall        RGB
	Asphalt     RGB
	Grass       RGB
	Kerb        RGB
	SparkHot    RGB
	SparkCool   RGB
}{
	CarBody:     RGB{R: 200, G: 0, B: 0},
	Headlight:   RGB{R: 255, G: 165, B: 0},
	GateNext:    RGB{R: 0, G: 255, B: 0},
	GateOther:   RGB{R: 255, G: 255, B: 0},
	GatePending: RGB{R: 200, G: 200, B: 200},
	Timer:       RGB{R: 255, G: 255, B: 255},
	Best:        RGB{R: 0, G: 255, B: 255},
	Last:        RGB{R: 200, G: 200, B: 200},
	Help:        RGB{R: 255, G: 255, B: 255},
	Wall:        RGB{R: 0, G: 0, B: 0},
	Asphalt:     RGB{R: 90, G: 92, B: 98},
	Grass:       RGB{R: 92, G: 140, B: 70},
	Kerb:        RGB{R: 220, G: 220, B: 220},
	SparkHot:    RGB{R: 255, G: 230, B: 140},
	SparkCool:   RGB{R: 255, G: 120, B: 40},
}
