package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func constantPCM(amplitude int16, frames int) []byte {
	data := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(amplitude))
	}
	return data
}

func TestLevelFromPCM(t *testing.T) {
	if got := LevelFromPCM(nil); got != 0 {
		t.Fatalf("empty buffer: got %v, want 0", got)
	}
	if got := LevelFromPCM(constantPCM(0, 512)); got != 0 {
		t.Fatalf("silence: got %v, want 0", got)
	}
	if got := LevelFromPCM(constantPCM(1500, 512)); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("half scale: got %v, want 0.5", got)
	}
	if got := LevelFromPCM(constantPCM(32000, 512)); got != 1 {
		t.Fatalf("loud input must clamp to 1, got %v", got)
	}
}

func TestSamplerDeliversPublishedLevel(t *testing.T) {
	s := &Sampler{}
	s.publish(constantPCM(1500, 512), 512)
	if got := s.Level(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("got %v, want 0.5", got)
	}
}

func TestSamplerDegradesAfterConsecutiveStalls(t *testing.T) {
	s := &Sampler{}
	s.publish(constantPCM(1500, 512), 512)
	if s.Level() == 0 {
		t.Fatal("expected live level before stalling")
	}

	for i := 0; i < maxStalledReads-1; i++ {
		if got := s.Level(); got != 0 {
			t.Fatalf("stalled poll %d: got %v, want 0", i, got)
		}
		if s.Degraded() {
			t.Fatalf("degraded too early after %d stalls", i+1)
		}
	}

	if got := s.Level(); got != 0 {
		t.Fatalf("final stalled poll: got %v, want 0", got)
	}
	if !s.Degraded() {
		t.Fatal("expected degraded after consecutive stalls")
	}

	// Once degraded, fresh data no longer revives the sampler.
	s.publish(constantPCM(1500, 512), 512)
	for i := 0; i < 5; i++ {
		if got := s.Level(); got != 0 {
			t.Fatalf("degraded poll: got %v, want 0", got)
		}
	}
}

func TestSamplerSuccessDecaysStallCount(t *testing.T) {
	s := &Sampler{}
	s.publish(constantPCM(1500, 512), 512)
	s.Level()

	for i := 0; i < maxStalledReads-1; i++ {
		s.Level()
	}
	if s.Degraded() {
		t.Fatal("degraded before threshold")
	}

	// One healthy poll buys headroom for one extra stall.
	s.publish(constantPCM(1500, 512), 512)
	if got := s.Level(); got == 0 {
		t.Fatalf("healthy poll: got 0, want live level")
	}

	s.Level()
	if s.Degraded() {
		t.Fatal("degraded despite decayed stall count")
	}
	s.Level()
	if !s.Degraded() {
		t.Fatal("expected degraded once stalls accumulate again")
	}
}

func TestSamplerProcessingPausesBreaker(t *testing.T) {
	s := &Sampler{}
	s.publish(constantPCM(1500, 512), 512)
	s.Level()

	s.SetProcessing(true)
	for i := 0; i < maxStalledReads*3; i++ {
		if got := s.Level(); got != 0 {
			t.Fatalf("processing poll: got %v, want 0", got)
		}
	}
	if s.Degraded() {
		t.Fatal("processing polls must not trip the breaker")
	}

	s.SetProcessing(false)
	s.publish(constantPCM(1500, 512), 512)
	if got := s.Level(); got == 0 {
		t.Fatal("expected live level after processing ends")
	}
}

func TestSamplerSetupFailure(t *testing.T) {
	s := NewSampler(failingContext{}, nil)
	if err := s.Setup(); err == nil {
		t.Fatal("expected setup error")
	}
	if !s.Degraded() {
		t.Fatal("setup failure must mark the sampler degraded")
	}
	if got := s.Level(); got != 0 {
		t.Fatalf("got %v, want 0 after setup failure", got)
	}
	s.Close()
	s.Close() // idempotent
}

type failingContext struct{}

func (failingContext) Devices() ([]DeviceInfo, error) { return nil, nil }
func (failingContext) Close()                         {}
func (failingContext) NewCapture(*DeviceInfo, CaptureConfig) (CaptureDevice, error) {
	return nil, errNoDevice
}

var errNoDevice = errString("no capture device")

type errString string

func (e errString) Error() string { return string(e) }
