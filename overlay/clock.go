package overlay

import (
	"fmt"
	"time"
)

// Elapsed returns the recording duration at now, floored at zero and capped
// at 24 hours so a jumped system clock cannot produce a nonsense timer.
func (s *State) Elapsed(now time.Time) time.Duration {
	d := now.Sub(s.startTime)
	if d < 0 {
		return 0
	}
	if d > maxElapsed {
		return maxElapsed
	}
	return d
}

// FormatClock renders a duration as "m:ss" with zero-padded seconds.
func FormatClock(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
