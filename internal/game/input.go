package game

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"

	"racer/internal/race"
)

type Input struct {
	prevMouse map[glfw.MouseButton]bool
	prevKeys  map[glfw.Key]bool
	pending   []race.Action
}

func NewInput() *Input {
	return &Input{
		prevMouse: make(map[glfw.MouseButton]bool),
		prevKeys:  make(map[glfw.Key]bool),
	}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

func (in *Input) JustClicked(window *glfw.Window, btn glfw.MouseButton) bool {
	down := window.GetMouseButton(btn) == glfw.Press
	jp := down && !in.prevMouse[btn]
	in.prevMouse[btn] = down
	return jp
}

// CursorTrackPos converts the cursor position to whole track pixels.
func CursorTrackPos(window *glfw.Window, cam Camera, fbW, fbH int) race.Point {
	cx, cy := window.GetCursorPos()
	winW, winH := window.GetSize()
	if winW <= 0 || winH <= 0 {
		return race.Point{X: int(cam.X), Y: int(cam.Y)}
	}
	fx := cx * float64(fbW) / float64(winW)
	fy := cy * float64(fbH) / float64(winH)
	x, y := cam.ScreenToTrack(fx, fy)
	return race.Point{X: int(math.Floor(x)), Y: int(math.Floor(y))}
}

// Poll records editing actions from this frame's button and key edges. They
// are queued until the next simulation step takes them.
func (in *Input) Poll(window *glfw.Window, cursor race.Point) {
	if in.JustClicked(window, glfw.MouseButtonLeft) {
		in.pending = append(in.pending, race.Action{Kind: race.ActionPlaceGatePoint, At: cursor})
	}
	if in.JustClicked(window, glfw.MouseButtonRight) {
		in.pending = append(in.pending, race.Action{Kind: race.ActionSetSpawn, At: cursor})
	}
	if in.JustPressed(window, glfw.KeyC) {
		in.pending = append(in.pending, race.Action{Kind: race.ActionClear})
	}
}

// TakeActions returns the queued actions and empties the queue.
func (in *Input) TakeActions() []race.Action {
	a := in.pending
	in.pending = nil
	return a
}

// Controls samples the held arrow keys.
func Controls(window *glfw.Window) race.Controls {
	held := func(k glfw.Key) bool { return window.GetKey(k) == glfw.Press }
	return race.Controls{
		Up:    held(glfw.KeyUp),
		Down:  held(glfw.KeyDown),
		Left:  held(glfw.KeyLeft),
		Right: held(glfw.KeyRight),
	}
}
