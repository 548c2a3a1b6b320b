package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"pill/log"
)

// Stalled polls tolerated before the sampler gives up on the device.
const maxStalledReads = 10

// Sampler owns a capture device and exposes the most recent microphone
// level to the overlay. The capture callback publishes into an atomic
// slot; Level reads it from the scheduler goroutine.
//
// A poll that observes no new data since the previous poll counts as a
// read failure. After maxStalledReads consecutive failures the sampler
// latches into a degraded state and stops touching the device. A
// successful poll decays the failure count by one.
type Sampler struct {
	ctx     Context
	devInfo *DeviceInfo
	device  CaptureDevice

	bits atomic.Uint64 // latest level, float64 bits
	seq  atomic.Uint64 // bumped on every capture chunk

	// Scheduler goroutine only.
	processing  bool
	lastSeq     uint64
	stalled     int
	degraded    bool
	setupFailed bool

	closeOnce sync.Once
}

func NewSampler(ctx Context, device *DeviceInfo) *Sampler {
	return &Sampler{ctx: ctx, devInfo: device}
}

// Setup opens and starts the capture device. On failure the sampler
// stays usable: Level reports silence and Degraded reports true.
func (s *Sampler) Setup() error {
	if s.ctx == nil {
		s.setupFailed = true
		s.degraded = true
		return fmt.Errorf("no audio context")
	}
	dev, err := s.ctx.NewCapture(s.devInfo, CaptureConfig{
		SampleRate: SampleRate,
		Channels:   Channels,
	})
	if err != nil {
		s.setupFailed = true
		s.degraded = true
		return fmt.Errorf("opening capture device: %w", err)
	}
	dev.SetCallback(s.publish)
	if err := dev.Start(); err != nil {
		dev.Close()
		s.setupFailed = true
		s.degraded = true
		return fmt.Errorf("starting capture device: %w", err)
	}
	s.device = dev
	return nil
}

func (s *Sampler) publish(data []byte, _ uint32) {
	s.bits.Store(math.Float64bits(LevelFromPCM(data)))
	s.seq.Add(1)
}

// Level returns the most recent microphone level in [0, 1]. It returns
// 0 while processing, after setup failure, or once degraded.
func (s *Sampler) Level() float64 {
	if s.degraded || s.processing {
		return 0
	}
	seq := s.seq.Load()
	if seq == s.lastSeq {
		s.stalled++
		if s.stalled >= maxStalledReads {
			s.degraded = true
			log.AudioDegraded(s.stalled)
		}
		return 0
	}
	s.lastSeq = seq
	if s.stalled > 0 {
		s.stalled--
	}
	return math.Float64frombits(s.bits.Load())
}

// SetProcessing pauses capture while the recording is being processed.
// Paused time does not count against the stall breaker.
func (s *Sampler) SetProcessing(on bool) {
	if on == s.processing {
		return
	}
	s.processing = on
	if s.device == nil {
		return
	}
	if on {
		s.device.ClearCallback()
	} else {
		s.device.SetCallback(s.publish)
		s.lastSeq = s.seq.Load()
	}
}

func (s *Sampler) Degraded() bool {
	return s.degraded
}

func (s *Sampler) Close() {
	s.closeOnce.Do(func() {
		if s.device != nil {
			s.device.ClearCallback()
			s.device.Stop()
			s.device.Close()
		}
	})
}
