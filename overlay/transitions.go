package overlay

// SignalFlags carries the externally observed signals for one poll tick.
// Each true flag has already been consumed at its source; applying them is
// therefore level-triggered but fires each transition at most once per
// observation.
type SignalFlags struct {
	Processing bool // companion tool started transcribing
	Offline    bool // companion tool lost connectivity
	Close      bool // companion tool requests the exit morph
}

// Transition describes a mode change produced by Apply, so callers can react
// (pause the sampler, log) without re-deriving what happened.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionProcessing
	TransitionOffline
	TransitionClosing
)

// Apply folds one tick's observed signals into the state machine:
//
//	Recording --processing--> Processing (spinner reset, entry time recorded)
//	any mode  --offline-----> Offline (sticky until process restart)
//	any mode  --close-------> closing morph (handled by StepMorph)
//
// Close always wins in the morph controller, so it is applied last and
// reported in preference to nothing, but offline/processing transitions are
// still taken first rather than dropped.
func (s *State) Apply(f SignalFlags) []Transition {
	var out []Transition

	if f.Processing && s.mode == ModeRecording {
		s.mode = ModeProcessing
		s.spinner = 0
		s.processingStart = s.now()
		out = append(out, TransitionProcessing)
	}

	if f.Offline && s.mode != ModeOffline {
		s.mode = ModeOffline
		out = append(out, TransitionOffline)
	}

	if f.Close && !s.closing {
		s.closing = true
		out = append(out, TransitionClosing)
	}

	return out
}
