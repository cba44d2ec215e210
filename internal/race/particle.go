package race

import "math"

// Particle is a short-lived spark thrown off when the car hits a wall.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Life    float64
	MaxLife float64
}

type ParticleSystem struct {
	Max    int
	P      []Particle
	rng    *Rand
	ovrIdx int // circular overwrite index when full
}

func NewParticleSystem(maxParticles int, seed uint64) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = MaxParticles
	}
	return &ParticleSystem{
		Max: maxParticles,
		P:   make([]Particle, 0, maxParticles),
		rng: NewRand(seed),
	}
}

func (ps *ParticleSystem) Clear() {
	ps.P = ps.P[:0]
	ps.ovrIdx = 0
}

func (ps *ParticleSystem) Add(p Particle) {
	if len(ps.P) < ps.Max {
		ps.P = append(ps.P, p)
		return
	}
	if ps.ovrIdx >= ps.Max {
		ps.ovrIdx = 0
	}
	ps.P[ps.ovrIdx] = p
	ps.ovrIdx++
}

// SpawnSparks bursts sparks at pos, thrown back against the heading the car
// was travelling in. Intensity scales with impact speed.
func (ps *ParticleSystem) SpawnSparks(pos Vec2, angle, speed float64) {
	intensity := clampF(math.Abs(speed)/CarMaxSpeed, 0.2, 1)
	heading := -angle * math.Pi / 180 // screen space, y down
	if speed < 0 {
		heading += math.Pi
	}
	back := heading + math.Pi
	for range int(SparksPerHit * intensity) {
		a := back + ps.rng.RangeF(-1.1, 1.1)
		spd := ps.rng.RangeF(SparkMinSpeed, SparkMaxSpeed) * intensity
		ps.Add(Particle{
			X: pos.X, Y: pos.Y,
			VX: math.Cos(a) * spd, VY: math.Sin(a) * spd,
			Size:    ps.rng.RangeF(1.5, 3),
			MaxLife: ps.rng.RangeF(0.15, 0.4),
		})
	}
}

// Update ages and moves particles by dt seconds and drops the expired ones.
func (ps *ParticleSystem) Update(dt float64) {
	n := 0
	for i := range ps.P {
		p := &ps.P[i]
		p.Life += dt
		if p.Life >= p.MaxLife {
			continue
		}
		drag := math.Exp(-6 * dt)
		p.VX *= drag
		p.VY *= drag
		p.X += p.VX * dt
		p.Y += p.VY * dt
		ps.P[n] = *p
		n++
	}
	ps.P = ps.P[:n]
	if ps.ovrIdx > n {
		ps.ovrIdx = 0
	}
}

// RenderData appends point sprites for every live particle.
// Format: [x, y, size, r, g, b, a, rotation] * N.
func (ps *ParticleSystem) RenderData(buf []float32) []float32 {
	buf = buf[:0]
	for _, p := range ps.P {
		t := clampF(p.Life/p.MaxLife, 0, 1)
		col := lerpRGB(Palette.SparkHot, Palette.SparkCool, t)
		r, g, b := col.Floats()
		a := float32(1 - t)
		buf = append(buf, float32(p.X), float32(p.Y), float32(p.Size), r*a, g*a, b*a, a, 0)
	}
	return buf
}

func lerpU8(a, b uint8, t float64) uint8 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func lerpRGB(a, b RGB, t float64) RGB {
	return RGB{R: lerpU8(a.R, b.R, t), G: lerpU8(a.G, b.G, t), B: lerpU8(a.B, b.B, t)}
}

// Rand is a tiny deterministic RNG (xorshift64*).
type Rand struct {
	s uint64
}

func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: seed}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

func (r *Rand) Float64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

func (r *Rand) RangeF(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*r.Float64()
}
