package log

// Structured events for the overlay's noteworthy moments. Tick failures go
// through Tick so every handler failure carries its task name; the rest are
// one-line session markers that make a user's log file diffable.

func SessionStart(renderer, signalDir string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("renderer", renderer).
		Str("signal_dir", signalDir).
		Msg("session_start")
}

func SessionEnd(reason string) {
	if !logReady {
		return
	}
	diagLog.Info().Str("reason", reason).Msg("session_end")
}

// Tick records a failed tick handler. The scheduler swallows the error after
// this; nothing downstream sees it.
func Tick(task string, err error) {
	if !logReady {
		return
	}
	diagLog.Error().Str("task", task).Err(err).Msg("tick_failed")
}

// SignalObserved records a consumed external signal.
func SignalObserved(name string) {
	if !logReady {
		return
	}
	diagLog.Info().Str("signal", name).Msg("signal_observed")
}

// SignalCheckFailed records a transport error during signal polling; the
// tick treats it as "no signal observed".
func SignalCheckFailed(err error) {
	if !logReady {
		return
	}
	diagLog.Warn().Err(err).Msg("signal_check_failed")
}

// AudioDegraded records the circuit breaker tripping. Emitted once per trip.
func AudioDegraded(consecutive int) {
	if !logReady {
		return
	}
	diagLog.Warn().Int("consecutive_failures", consecutive).Msg("audio_degraded")
}

// ModeChange records a display-mode transition.
func ModeChange(mode string) {
	if !logReady {
		return
	}
	diagLog.Info().Str("mode", mode).Msg("mode_change")
}
