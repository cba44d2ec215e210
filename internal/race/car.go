package race

import (
	"math"
	"time"
)

// Controls is the snapshot of held movement keys for one tick.
type Controls struct {
	Up, Down, Left, Right bool
}

// WallTester decides whether the car overlaps a wall at a candidate pose.
type WallTester interface {
	HitsWall(pos Vec2, angle float64) bool
}

// StepResult describes what happened during one Update.
type StepResult struct {
	Collided     bool
	GatePassed   bool
	Gate         int // index of the gate just passed
	LapCompleted bool
	LapTime      time.Duration
	NewBest      bool
}

// Car is the player's vehicle together with its lap bookkeeping.
type Car struct {
	Pos   Vec2
	Angle float64 // degrees, counter-clockwise, never normalised
	Speed float64
	Spawn Point

	Checkpoint int // index of the next gate awaited
	Laps       int

	lapStart time.Duration
	lastLap  time.Duration
	hasLast  bool
	bestLap  time.Duration
	hasBest  bool

	clock Clock
}

func NewCar(spawn Point, clock Clock) *Car {
	c := &Car{Spawn: spawn, clock: clock}
	c.Reset()
	return c
}

// Reset puts the car back on its spawn and clears all race state, best lap included.
func (c *Car) Reset() {
	c.Pos = c.Spawn.Vec()
	c.Speed = 0
	c.Angle = 0
	c.Checkpoint = 0
	c.Laps = 0
	c.lapStart = c.clock.Now()
	c.lastLap, c.hasLast = 0, false
	c.bestLap, c.hasBest = 0, false
}

// Update advances the car by one tick.
func (c *Car) Update(in Controls, gates []Gate, walls WallTester) StepResult {
	var res StepResult
	oldPos, oldAngle := c.Pos, c.Angle

	switch {
	case in.Up:
		c.Speed += CarAccel
	case in.Down:
		c.Speed -= CarBrake
	default:
		c.Speed *= CarDrag
	}
	c.Speed = clampF(c.Speed, CarMinSpeed, CarMaxSpeed)

	if c.Speed != 0 {
		dir := 1.0
		if c.Speed < 0 {
			dir = -1.0
		}
		if in.Left {
			c.Angle += CarTurnRate * dir
		}
		if in.Right {
			c.Angle -= CarTurnRate * dir
		}
	}

	rad := c.Angle * math.Pi / 180
	c.Pos.X += math.Cos(rad) * c.Speed
	c.Pos.Y -= math.Sin(rad) * c.Speed

	if walls != nil && walls.HitsWall(c.Pos, c.Angle) {
		c.Pos, c.Angle = oldPos, oldAngle
		c.Speed *= CarBounce
		res.Collided = true
	}

	if len(gates) == 0 {
		return res
	}
	if c.Checkpoint >= len(gates) {
		c.Checkpoint = 0
	}
	g := gates[c.Checkpoint]
	if DistPointToSegment(c.Pos, g.A.Vec(), g.B.Vec()) >= GateRadius {
		return res
	}
	res.GatePassed = true
	res.Gate = c.Checkpoint
	c.Checkpoint = (c.Checkpoint + 1) % len(gates)
	if c.Checkpoint == 0 {
		now := c.clock.Now()
		c.lastLap, c.hasLast = now-c.lapStart, true
		if !c.hasBest || c.lastLap < c.bestLap {
			c.bestLap, c.hasBest = c.lastLap, true
			res.NewBest = true
		}
		c.lapStart = now
		c.Laps++
		res.LapCompleted = true
		res.LapTime = c.lastLap
	}
	return res
}

// LapElapsed is the running time of the lap in progress.
func (c *Car) LapElapsed() time.Duration {
	return c.clock.Now() - c.lapStart
}

func (c *Car) LastLap() (time.Duration, bool) { return c.lastLap, c.hasLast }

func (c *Car) BestLap() (time.Duration, bool) { return c.bestLap, c.hasBest }
