package overlay

import "math"

// StepAnimation advances the per-frame animation: the spinner while
// processing, otherwise the bar heights. It runs on its own cadence,
// typically faster than UpdateLevels, so bars glide toward their targets
// over several frames instead of snapping.
func (s *State) StepAnimation() {
	if s.mode == ModeProcessing {
		s.spinner += spinnerStep
		if s.spinner >= 2*math.Pi {
			s.spinner -= 2 * math.Pi
		}
		// Guard against accumulated float drift.
		s.spinner = clamp(s.spinner, 0, 2*math.Pi)
		return
	}

	for i := range s.bars {
		s.bars[i] += (s.targets[i] - s.bars[i]) * barGain
		s.bars[i] = clamp(s.bars[i], 0, 1)
	}
}

// Bars returns the currently displayed bar heights.
func (s *State) Bars() [NumBars]float64 { return s.bars }

// SpinnerAngle returns the processing spinner angle in [0, 2π).
func (s *State) SpinnerAngle() float64 { return s.spinner }
