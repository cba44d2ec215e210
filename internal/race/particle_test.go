package race

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticleSystemOverwritesWhenFull(t *testing.T) {
	ps := NewParticleSystem(3, 1)
	for i := range 5 {
		ps.Add(Particle{X: float64(i), MaxLife: 1})
	}
	require.Len(t, ps.P, 3)
	assert.Equal(t, []float64{3, 4, 2}, []float64{ps.P[0].X, ps.P[1].X, ps.P[2].X})
}

func TestSpawnSparksScalesWithSpeed(t *testing.T) {
	slow := NewParticleSystem(0, 7)
	slow.SpawnSparks(Vec2{X: 10, Y: 10}, 0, 0.1)
	fast := NewParticleSystem(0, 7)
	fast.SpawnSparks(Vec2{X: 10, Y: 10}, 0, CarMaxSpeed)

	assert.Len(t, slow.P, 2, "weakest burst")
	assert.Len(t, fast.P, SparksPerHit)
	for _, p := range fast.P {
		assert.Equal(t, 10.0, p.X)
		assert.Less(t, p.VX, 0.0, "sparks fly back against a car heading +x")
		sp := math.Hypot(p.VX, p.VY)
		assert.GreaterOrEqual(t, sp, SparkMinSpeed)
		assert.LessOrEqual(t, sp, SparkMaxSpeed)
	}
}

func TestParticleSystemUpdateExpires(t *testing.T) {
	ps := NewParticleSystem(0, 1)
	ps.Add(Particle{VX: 10, MaxLife: 0.1})
	ps.Add(Particle{VX: 10, MaxLife: 1})

	ps.Update(0.05)
	require.Len(t, ps.P, 2)
	assert.Greater(t, ps.P[0].X, 0.0)

	ps.Update(0.06)
	require.Len(t, ps.P, 1)
	assert.Equal(t, 1.0, ps.P[0].MaxLife)

	ps.Clear()
	assert.Empty(t, ps.P)
}

func TestParticleRenderData(t *testing.T) {
	ps := NewParticleSystem(0, 1)
	ps.Add(Particle{X: 3, Y: 4, Size: 2, MaxLife: 1})
	ps.Add(Particle{X: 5, Y: 6, Size: 2, Life: 0.5, MaxLife: 1})

	buf := ps.RenderData(make([]float32, 0, 64))
	require.Len(t, buf, 16)
	assert.Equal(t, []float32{3, 4, 2}, buf[:3])
	assert.Equal(t, float32(1), buf[6], "fresh spark is opaque")
	assert.InDelta(t, 0.5, buf[14], 1e-6, "half-spent spark is half faded")
}
