package config

import "time"

// this holds the resolved configuration values from CLI
var (
	TrackFile string // path to the track image (png or jpeg)
	DataFile  string // path to the spawn/gate data file
	TickRate  int    // fixed simulation and render rate in Hz
	LogLevel  string // sets the log level (zap log level values)
	LogFormat string // text vs json
	Mute      bool   // disable audio cues
	Watch     bool   // reload the data file when it changes on disk
)

// TickInterval converts TickRate into the duration of one tick. Non-positive
// rates fall back to 60 Hz.
func TickInterval() time.Duration {
	rate := TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}
