// Package audio provides microphone capture backends and the level
// sampler that feeds the overlay waveform.
package audio

import (
	"encoding/binary"
	"math"
)

const (
	SampleRate = 44100
	Channels   = 1

	// Int16 RMS divisor that maps typical speech to roughly [0.3, 1.0].
	rmsFullScale = 3000.0
)

type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
}

// LevelFromPCM computes the normalized RMS level of little-endian
// 16-bit mono PCM. The result is clamped to [0, 1].
func LevelFromPCM(data []byte) float64 {
	n := len(data) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(n))
	level := rms / rmsFullScale
	if level > 1 {
		return 1
	}
	return level
}
