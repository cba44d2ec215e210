package game

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"racer/internal/race"
)

// Options configure a desktop run.
type Options struct {
	TrackFile string
	DataFile  string
	Tick      time.Duration // simulation step; zero means race.TickDuration
	Mute      bool
	Watch     bool // reload the data file when it changes on disk
	Log       *zap.Logger
}

// RunDesktop opens the window and runs the race until the window closes or
// ctx is cancelled.
func RunDesktop(ctx context.Context, opts Options) error {
	runtime.LockOSThread()

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = race.TickDuration
	}

	track, err := race.OpenTrack(opts.TrackFile, log)
	if err != nil {
		return err
	}
	store := race.NewStore(opts.DataFile, log)
	data := store.LoadOrDefault(race.DefaultTrackData(track))

	winW, winH := WindowSize(track.Width(), track.Height())
	window, err := initWindow(winW, winH, WindowTitle+" - "+track.Source)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.ClearColor(0, 0, 0, 1)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()
	rend.SetTrack(track)

	fbW, fbH := window.GetFramebufferSize()
	cam := FitCamera(track.Width(), track.Height(), fbW, fbH)
	if err := rend.InitFonts(cam.Zoom); err != nil {
		return fmt.Errorf("font: %w", err)
	}

	clock := race.ClockFunc(func() time.Duration {
		return time.Duration(glfw.GetTime() * float64(time.Second))
	})
	session := race.NewSession(track, data, store, clock, log)
	session.Tick = tick

	if opts.Watch {
		w, err := race.WatchTrackData(ctx, store, log)
		if err != nil {
			log.Warn("track data watcher disabled", zap.Error(err))
		} else {
			defer w.Close()
			session.SetReloads(w.Reloads())
		}
	}

	if !opts.Mute {
		audio, err := NewAudio(AudioVolume, log)
		if err != nil {
			log.Warn("audio init failed, continuing without sound", zap.Error(err))
		} else {
			audio.Bind(session.Bus)
		}
	}

	input := NewInput()
	var (
		lines  []Line
		text   []TextItem
		sparks []float32
	)

	log.Info("race started",
		zap.Int("gates", len(data.Gates)),
		zap.Duration("tick", tick))

	var acc time.Duration
	last := clock.Now()
	for !window.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		now := clock.Now()
		acc += now - last
		last = now

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH = window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		cam = FitCamera(track.Width(), track.Height(), fbW, fbH)

		cursor := CursorTrackPos(window, cam, fbW, fbH)
		input.Poll(window, cursor)

		steps := 0
		for acc >= tick && steps < MaxStepsPerFrame {
			session.Step(race.TickInput{
				Controls: Controls(window),
				Actions:  input.TakeActions(),
			})
			acc -= tick
			steps++
		}
		if steps == MaxStepsPerFrame && acc >= tick {
			log.Debug("dropping simulation time", zap.Duration("behind", acc))
			acc = 0
		}

		rend.BeginFrame(cam, fbW, fbH)
		rend.DrawTrack()
		lines = GateLines(session, cursor, lines[:0])
		rend.DrawLines(lines)
		rend.DrawCar(track, session.Car)
		sparks = session.Sparks.RenderData(sparks[:0])
		rend.DrawSparks(sparks, cam, fbW, fbH)
		text = HUDText(session, text[:0])
		rend.DrawText(text, cam)
		rend.FlushText(fbW, fbH)

		window.SwapBuffers()
	}

	log.Info("race finished",
		zap.Int("laps", session.Car.Laps),
		zap.Int64("ticks", session.Ticks))
	return nil
}
