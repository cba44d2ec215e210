package race

import "time"

// Car physics (per tick, no dt integration).
const (
	CarAccel      = 0.15
	CarBrake      = 0.15
	CarDrag       = 0.96
	CarMinSpeed   = -2.0
	CarMaxSpeed   = 5.0
	CarTurnRate   = 5.0 // degrees per tick
	CarBounce     = -0.5
	CarWidth      = 20
	CarHeight     = 10
	HeadlightSize = 3
)

// Lap gates.
const (
	GateRadius = 15.0
)

// Wall mask: a pixel is wall when every colour channel is below this value.
const WallThreshold = 20

// Silhouette mask alpha threshold (pixels with alpha above it are solid).
const SilhouetteAlpha = 127

// Fixed tick rate of the main loop.
const (
	DefaultTickRate = 60
	TickDuration    = time.Second / DefaultTickRate
)

// Fallback track used when no track image is present.
const (
	FallbackTrackWidth  = 1280
	FallbackTrackHeight = 720
)

// Impact sparks.
const (
	MaxParticles  = 512
	SparksPerHit  = 14
	SparkMinSpeed = 40.0
	SparkMaxSpeed = 140.0
)
