package overlay

import (
	"math"
	"math/rand"
	"testing"
)

func deterministic(s *State) *State {
	s.rng = rand.New(rand.NewSource(1))
	return s
}

func allInRange(t *testing.T, s *State, tick int) {
	t.Helper()
	for i, b := range s.bars {
		if b < 0 || b > 1 || math.IsNaN(b) {
			t.Fatalf("tick %d: bars[%d]=%f out of range", tick, i, b)
		}
	}
	for i, tg := range s.targets {
		if tg < 0 || tg > 1 || math.IsNaN(tg) {
			t.Fatalf("tick %d: targets[%d]=%f out of range", tick, i, tg)
		}
	}
	if s.overall < 0 || s.overall > 1 || math.IsNaN(s.overall) {
		t.Fatalf("tick %d: overall=%f out of range", tick, s.overall)
	}
	if s.spinner < 0 || s.spinner > 2*math.Pi {
		t.Fatalf("tick %d: spinner=%f out of range", tick, s.spinner)
	}
	if s.progress < 0 || s.progress > 1 {
		t.Fatalf("tick %d: progress=%f out of range", tick, s.progress)
	}
}

func TestRangesSurviveAdversarialInput(t *testing.T) {
	s := deterministic(New())
	hostile := []float64{
		math.NaN(), math.Inf(1), math.Inf(-1), -5, 42, 0.5, 1, 0,
	}
	for tick := 0; tick < 400; tick++ {
		s.UpdateLevels(hostile[tick%len(hostile)])
		s.StepAnimation()
		s.StepMorph()
		allInRange(t, s, tick)
	}
}

func TestOverallLevelSmoothing(t *testing.T) {
	s := deterministic(New())
	s.UpdateLevels(1.0)
	want := 0.3 // 0*0.7 + 1*0.3
	if math.Abs(s.OverallLevel()-want) > 1e-9 {
		t.Fatalf("overall=%f want=%f", s.OverallLevel(), want)
	}
	s.UpdateLevels(1.0)
	want = 0.3*0.7 + 0.3
	if math.Abs(s.OverallLevel()-want) > 1e-9 {
		t.Fatalf("overall=%f want=%f", s.OverallLevel(), want)
	}
}

func TestHistoryScrollsFIFO(t *testing.T) {
	s := deterministic(New())
	for i := 0; i < NumBars; i++ {
		s.UpdateLevels(float64(i) / float64(NumBars))
	}
	// Newest sample sits at the end of the history window.
	wantNewest := float64(NumBars-1) / float64(NumBars)
	if math.Abs(s.history[NumBars-1]-wantNewest) > 1e-9 {
		t.Fatalf("history tail=%f want=%f", s.history[NumBars-1], wantNewest)
	}
	// One more push drops the oldest.
	s.UpdateLevels(1.0)
	if math.Abs(s.history[0]-1.0/float64(NumBars)) > 1e-9 {
		t.Fatalf("history head=%f, oldest sample was not dropped", s.history[0])
	}
}

func TestTargetsReadReversedHistory(t *testing.T) {
	s := deterministic(New())
	// Fill history with zeros, then one loud sample: it lands at the history
	// tail, so after reversal it must drive targets[0].
	for i := 0; i < NumBars; i++ {
		s.UpdateLevels(0)
	}
	s.UpdateLevels(1.0)
	if s.targets[0] < jitterLo {
		t.Fatalf("targets[0]=%f, expected the newest sample (>= %f)", s.targets[0], jitterLo)
	}
	for i := 1; i < NumBars; i++ {
		if s.targets[i] != barFloor {
			t.Fatalf("targets[%d]=%f want floor %f", i, s.targets[i], barFloor)
		}
	}
}

func TestTargetJitterIsPerBar(t *testing.T) {
	s := deterministic(New())
	for i := 0; i < NumBars; i++ {
		s.UpdateLevels(0.5)
	}
	// With a constant 0.5 level every target is 0.5 times an independent
	// jitter draw; identical values across all bars would mean the draw is
	// shared.
	first := s.targets[0]
	same := true
	for _, tg := range s.targets[1:] {
		if tg != first {
			same = false
		}
		if tg < 0.5*jitterLo-1e-9 || tg > 0.5*jitterHi+1e-9 {
			t.Fatalf("target %f outside jitter envelope", tg)
		}
	}
	if same {
		t.Fatal("all targets identical; jitter must be drawn per bar")
	}
}

func TestTargetsFlooredAndCapped(t *testing.T) {
	s := deterministic(New())
	for i := 0; i < NumBars; i++ {
		s.UpdateLevels(1.0)
	}
	for i, tg := range s.targets {
		if tg > 1.0 {
			t.Fatalf("targets[%d]=%f above cap", i, tg)
		}
	}
	for i := 0; i < NumBars; i++ {
		s.UpdateLevels(0.0)
	}
	for i, tg := range s.targets {
		if tg != barFloor {
			t.Fatalf("targets[%d]=%f want floor", i, tg)
		}
	}
}

func TestLevelsIgnoredWhileProcessing(t *testing.T) {
	s := deterministic(New())
	s.Apply(SignalFlags{Processing: true})
	before := s.history
	s.UpdateLevels(1.0)
	if s.history != before {
		t.Fatal("history mutated during processing mode")
	}
	if s.OverallLevel() != 0 {
		t.Fatalf("overall=%f, expected untouched", s.OverallLevel())
	}
}

func TestBarInterpolationConverges(t *testing.T) {
	s := deterministic(New())
	for i := range s.targets {
		s.targets[i] = 1.0
	}
	for i := range s.bars {
		s.bars[i] = 0.1
	}
	for tick := 0; tick < 20; tick++ {
		s.StepAnimation()
	}
	for i, b := range s.bars {
		if b <= 0.99 {
			t.Fatalf("bars[%d]=%f after 20 ticks, want > 0.99", i, b)
		}
	}
}

func TestBarsConvergeGraduallyNotInstantly(t *testing.T) {
	s := deterministic(New())
	for i := range s.targets {
		s.targets[i] = 1.0
	}
	s.StepAnimation()
	if s.bars[0] > 0.5 {
		t.Fatalf("bars[0]=%f after one tick, interpolation snapped", s.bars[0])
	}
}
