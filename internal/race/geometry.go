package race

import (
	"math"
	"strconv"
)

// Vec2 is a point or direction in track pixel space (y grows downward).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Point is an integer pixel coordinate, as clicked by the user and persisted.
type Point struct {
	X, Y int
}

func (p Point) Vec() Vec2 { return Vec2{X: float64(p.X), Y: float64(p.Y)} }

func (p Point) String() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// DistPointToSegment returns the distance from p to the closed segment ab.
// A zero-length segment degenerates to the distance from p to a.
func DistPointToSegment(p, a, b Vec2) float64 {
	pa := p.Sub(a)
	ba := b.Sub(a)
	denom := ba.Dot(ba)
	if denom == 0 {
		return pa.Len()
	}
	t := clampF(pa.Dot(ba)/denom, 0, 1)
	return p.Dist(a.Add(ba.Scale(t)))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
