package overlay

// UpdateLevels feeds one microphone level sample into the waveform model.
// It is a no-op while processing: the spinner owns the pill then and the
// sampler is paused anyway.
//
// The sample updates the overall envelope with a fixed EMA, shifts into the
// level history FIFO, and refreshes every bar target from the reversed
// history so the wave scrolls right to left. Each target gets its own
// uniform jitter draw so neighboring bars never move in lockstep.
func (s *State) UpdateLevels(level float64) {
	if s.mode == ModeProcessing {
		return
	}

	level = sanitize(level)

	s.overall = clamp(s.overall*(1-levelWeight)+level*levelWeight, 0, 1)

	copy(s.history[:], s.history[1:])
	s.history[NumBars-1] = level

	for i := 0; i < NumBars; i++ {
		v := s.history[NumBars-1-i]
		jitter := jitterLo + s.rng.Float64()*(jitterHi-jitterLo)
		t := v * jitter
		if t > 1 {
			t = 1
		}
		if t < barFloor {
			t = barFloor
		}
		s.targets[i] = t
	}
}

// OverallLevel returns the smoothed scalar envelope in [0,1].
func (s *State) OverallLevel() float64 { return s.overall }
