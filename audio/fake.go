package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext synthesizes speech-like PCM so the overlay can run
// without a capture device.
type FakeContext struct{}

func NewFakeContext() *FakeContext { return &FakeContext{} }

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "synthetic tone"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{}, nil
}

type FakeCapture struct {
	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

// synthChunk renders one buffer of a 220 Hz tone whose amplitude swells
// and fades on a slow cycle, so levels sweep the whole visible range.
func synthChunk(buf []byte, start int) {
	for i := 0; i < fakeFrameSize; i++ {
		t := float64(start+i) / SampleRate
		envelope := math.Abs(math.Sin(2 * math.Pi * 0.4 * t))
		sample := envelope * math.Sin(2*math.Pi*220*t)
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(sample*9000)))
	}
}

func (f *FakeCapture) Start() error {
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	interval := time.Duration(fakeFrameSize) * time.Second / SampleRate
	go func() {
		defer close(f.feedDone)
		buf := make([]byte, fakeFrameSize*fakeBytesPerFrame)
		pos := 0
		for {
			select {
			case <-f.stopCh:
				return
			case <-time.After(interval):
			}
			f.mu.Lock()
			cb := f.cb
			f.mu.Unlock()
			if cb != nil {
				synthChunk(buf, pos)
				cb(buf, fakeFrameSize)
			}
			pos += fakeFrameSize
		}
	}()

	return nil
}

func (f *FakeCapture) Stop() {
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() {
	f.Stop()
}
