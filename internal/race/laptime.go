package race

import (
	"fmt"
	"time"
)

// NoTime is shown for lap times that have not been set.
const NoTime = "--:--:--"

// FormatLapTime renders d as MM:SS:HH (minutes, seconds, hundredths).
// Minutes are not wrapped. Negative durations render as NoTime.
func FormatLapTime(d time.Duration) string {
	if d < 0 {
		return NoTime
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d", ms/60000, (ms/1000)%60, (ms/10)%100)
}

// FormatOptionalLapTime renders NoTime when ok is false.
func FormatOptionalLapTime(d time.Duration, ok bool) string {
	if !ok {
		return NoTime
	}
	return FormatLapTime(d)
}
