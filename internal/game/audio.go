package game

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"

	"racer/internal/race"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

// SoundKind identifies a race sound cue.
type SoundKind int

const (
	SoundGate SoundKind = iota
	SoundLap
	SoundBestLap
	SoundWall
	SoundGatePlaced
	SoundSpawn
	SoundClear
	soundKinds
)

// Audio plays procedurally generated cues. Every cue is synthesised once up
// front; playback only copies from the cached buffers.
type Audio struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	voices atomic.Int32
	sounds [soundKinds][]byte
	log    *zap.Logger
}

// NewAudio opens the output device and renders the cue buffers.
func NewAudio(volume float64, log *zap.Logger) (*Audio, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, err
	}
	a := &Audio{ctx: ctx, ready: ready, volume: clampF(volume, 0, 1), log: log.Named("audio")}
	for k := SoundKind(0); k < soundKinds; k++ {
		a.sounds[k] = generateSound(k)
	}
	return a, nil
}

// Play starts a cue at the given gain in [0,1]. Cues are dropped while the
// device is still starting or when MaxVoices are already sounding.
func (a *Audio) Play(kind SoundKind, gain float64) {
	if a == nil || gain <= 0 || kind < 0 || kind >= soundKinds {
		return
	}
	select {
	case <-a.ready:
	default:
		return
	}
	if a.voices.Add(1) > MaxVoices {
		a.voices.Add(-1)
		return
	}
	go func() {
		defer a.voices.Add(-1)
		player := a.ctx.NewPlayer(&soundReader{data: a.sounds[kind]})
		player.SetVolume(a.volume * clampF(gain, 0, 1))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			a.log.Debug("closing player", zap.Error(err))
		}
	}()
}

// Bind maps session events to cues.
func (a *Audio) Bind(bus *race.EventBus) {
	bus.Subscribe(race.EventWallHit, func(e race.Event) {
		a.Play(SoundWall, wallGain(e.Speed))
	})
	bus.Subscribe(race.EventGatePassed, func(race.Event) {
		a.Play(SoundGate, 0.8)
	})
	bus.Subscribe(race.EventLapCompleted, func(e race.Event) {
		if e.Best {
			a.Play(SoundBestLap, 1)
			return
		}
		a.Play(SoundLap, 1)
	})
	bus.Subscribe(race.EventGateAdded, func(race.Event) {
		a.Play(SoundGatePlaced, 0.6)
	})
	bus.Subscribe(race.EventSpawnMoved, func(race.Event) {
		a.Play(SoundSpawn, 0.6)
	})
	bus.Subscribe(race.EventTrackReloaded, func(race.Event) {
		a.Play(SoundSpawn, 0.6)
	})
	bus.Subscribe(race.EventTrackCleared, func(race.Event) {
		a.Play(SoundClear, 0.8)
	})
}

// wallGain scales a wall hit with the impact speed, with a floor so slow
// scrapes stay audible.
func wallGain(speed float64) float64 {
	return clampF(0.2+0.8*math.Abs(speed)/race.CarMaxSpeed, 0, 1)
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

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for ch := 0; ch < ChannelCount; ch++ {
		o := i*8 + ch*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}

// softSat is a gentle saturator bounded to [-1,1].
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func makeBuf(n int) []byte { return make([]byte, n*8) }

func generateSound(kind SoundKind) []byte {
	switch kind {
	case SoundGate:
		return genGate()
	case SoundLap:
		return genArpeggio([]float64{440, 554.37, 659.25, 880})
	case SoundBestLap:
		return genArpeggio([]float64{523.25, 659.25, 783.99, 1046.5, 1318.5})
	case SoundWall:
		return genWall()
	case SoundGatePlaced:
		return genClick(1400, 700)
	case SoundSpawn:
		return genClick(700, -300)
	case SoundClear:
		return genClear()
	}
	return nil
}

// genGate: short bright chirp.
func genGate() []byte {
	n := int(0.11 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.02, 0.4, 0.3, 0.4)
		freq := 880 + 440*p
		s := fm(t, freq, 2.0, 1.8*(1-p)) * env * 0.45
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genArpeggio: ascending FM bell staircase, each note ringing over the next.
func genArpeggio(notes []float64) []byte {
	noteStep := int(0.08 * SampleRate)
	total := len(notes)*noteStep + int(0.25*SampleRate)
	mix := make([]float64, total)
	for fi, freq := range notes {
		start := fi * noteStep
		dur := total - start
		for j := 0; j < dur; j++ {
			t := float64(start+j) / SampleRate
			np := float64(j) / float64(dur)
			env := adsr(np, 0.003, 0.65, 0.04, 0.28)
			s := fm(t, freq, 3.5, 5.5*env) * env * 0.26
			s += math.Sin(2*math.Pi*freq*2*t) * env * 0.06
			mix[start+j] += s
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genWall: low thud under lowpassed scrape noise.
func genWall() []byte {
	n := int(0.18 * SampleRate)
	buf := makeBuf(n)
	seed := uint64(0xC0FFEE)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := math.Exp(-p * 6)
		lp = lp*0.8 + lcg(&seed)*0.2
		thump := fm(t, 70, 0.5, 1.4) * math.Exp(-p*18)
		s := (lp*0.6 + thump*0.7) * env
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genClick: crisp click with a short pitch sweep of sweep Hz.
func genClick(freq, sweep float64) []byte {
	n := SampleRate * 65 / 1000
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.004, 0.55, 0.0, 0.1)
		s := fm(t, freq-sweep*p, 1.0, 0.6) * env * 0.38
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genClear: quick descending minor triad.
func genClear() []byte {
	n := int(0.45 * SampleRate)
	notes := []struct{ freq, onset float64 }{
		{659.25, 0.00},
		{523.25, 0.07},
		{440.00, 0.14},
	}
	mix := make([]float64, n)
	for _, note := range notes {
		start := int(note.onset * SampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / SampleRate
			np := float64(i-start) / float64(n-start)
			env := adsr(np, 0.01, 0.3, 0.25, 0.4)
			s := fm(t, note.freq*(1-np*0.03), 2.0, 2.0*env) * env * 0.3
			mix[i] += s
		}
	}
	buf := makeBuf(n)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}
