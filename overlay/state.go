// Package overlay holds the animation and mode state behind the pill HUD.
//
// A State is owned by the scheduler goroutine: every mutating method must be
// called from that single goroutine, and renderers only ever see value copies
// taken with Snapshot. Collaborator inputs (microphone levels, signal flags)
// are sanitized on the way in so every field stays finite and inside its
// documented range no matter what the device or filesystem hands us.
package overlay

import (
	"math"
	"math/rand"
	"time"
)

// NumBars is the number of waveform bars in the pill.
const NumBars = 16

const (
	barFloor     = 0.1  // minimum bar/target height
	barGain      = 0.3  // per-tick interpolation gain toward targets
	levelWeight  = 0.3  // EMA weight of a fresh level sample
	morphStep    = 0.04 // per-tick entrance/exit progress step
	spinnerStep  = 0.15 // radians per animation tick while processing
	jitterLo     = 0.8
	jitterHi     = 1.2
	maxElapsed   = 86400 * time.Second // timer cap, guards clock anomalies
)

// Mode is the pill's display mode.
type Mode int

const (
	ModeRecording Mode = iota
	ModeProcessing
	ModeOffline
)

func (m Mode) String() string {
	switch m {
	case ModeRecording:
		return "recording"
	case ModeProcessing:
		return "processing"
	case ModeOffline:
		return "offline"
	}
	return "unknown"
}

// State is the mutable model driving the overlay. Not safe for concurrent
// use; the scheduler goroutine is the sole writer.
type State struct {
	progress      float64 // 0 = collapsed circle, 1 = full pill
	closing       bool
	terminalFired bool

	mode    Mode
	bars    [NumBars]float64
	targets [NumBars]float64
	history [NumBars]float64 // FIFO of recent levels, newest last
	overall float64
	spinner float64 // [0, 2π)

	startTime       time.Time
	processingStart time.Time // recorded on entering processing; not consumed

	rng *rand.Rand
	now func() time.Time
}

// New returns a State in recording mode with all bars at the floor height
// and the entrance morph fully collapsed.
func New() *State {
	s := &State{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	s.startTime = s.now()
	for i := range s.bars {
		s.bars[i] = barFloor
		s.targets[i] = barFloor
	}
	return s
}

// Mode returns the current display mode.
func (s *State) Mode() Mode { return s.mode }

// Closing reports whether the exit morph has been requested.
func (s *State) Closing() bool { return s.closing }

// Snapshot is a read-only copy of the overlay state handed to renderers.
type Snapshot struct {
	Progress     float64
	Eased        float64
	Closing      bool
	Mode         Mode
	Bars         [NumBars]float64
	OverallLevel float64
	SpinnerAngle float64
	Elapsed      time.Duration
	Clock        string
}

// Snapshot copies the state for a renderer. The copy carries the eased morph
// progress and the formatted timer so renderers stay purely presentational.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Progress:     s.progress,
		Eased:        s.Eased(),
		Closing:      s.closing,
		Mode:         s.mode,
		Bars:         s.bars,
		OverallLevel: s.overall,
		SpinnerAngle: s.spinner,
		Elapsed:      s.Elapsed(s.now()),
		Clock:        FormatClock(s.Elapsed(s.now())),
	}
}

// sanitize maps non-finite or out-of-range collaborator input into [0,1].
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
