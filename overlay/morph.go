package overlay

import "math"

// MorphEvent is the outcome of one entrance/exit morph tick.
type MorphEvent int

const (
	// MorphNone means the morph advanced (or was already settled).
	MorphNone MorphEvent = iota
	// MorphTerminal fires exactly once, when a closing morph reaches zero.
	// The caller must run full teardown on it.
	MorphTerminal
)

// StepMorph advances the entrance/exit animation by one tick: toward 1.0
// while open, toward 0.0 once closing. Progress is clamped to [0,1] after
// every step. The terminal event is latched so re-entrant ticks after
// convergence never trigger teardown twice.
func (s *State) StepMorph() MorphEvent {
	if s.closing {
		s.progress -= morphStep
		if s.progress <= 0 {
			s.progress = 0
			if s.terminalFired {
				return MorphNone
			}
			s.terminalFired = true
			return MorphTerminal
		}
		return MorphNone
	}

	if s.progress < 1 {
		s.progress = clamp(s.progress+morphStep, 0, 1)
	}
	return MorphNone
}

// BeginClose requests the exit morph. From then on progress only decreases.
// Safe to call repeatedly and from any mode; closing wins over everything.
func (s *State) BeginClose() {
	s.closing = true
}

// ForceVisible settles the morph at fully open. It is the failure fallback:
// when a morph tick handler dies, the window must end up opaque rather than
// stranded mid-fade.
func (s *State) ForceVisible() {
	s.progress = 1
}

// Progress returns the raw linear morph progress in [0,1].
func (s *State) Progress() float64 { return s.progress }

// Eased returns ease-out cubic morph progress, the value renderers use for
// opacity and pill width.
func (s *State) Eased() float64 {
	p := clamp(s.progress, 0, 1)
	return 1 - math.Pow(1-p, 3)
}
