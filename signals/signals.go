// Package signals delivers the companion tool's control signals to the
// overlay. A Source is polled once per scheduler tick; every signal it
// returns has already been consumed at the transport, so observing a signal
// twice requires the sender to raise it twice.
package signals

import "errors"

// Signal is one external control event.
type Signal int

const (
	// Processing: the companion tool started transcribing; show the spinner.
	Processing Signal = iota
	// Offline: the companion tool lost connectivity; show the error pill.
	Offline
	// Close: play the exit morph and shut down.
	Close
)

func (s Signal) String() string {
	switch s {
	case Processing:
		return "processing"
	case Offline:
		return "offline"
	case Close:
		return "close"
	}
	return "unknown"
}

// Source is a consumable signal transport. Poll returns the signals observed
// since the last call; a transport error means "nothing observed this tick"
// to the caller, never a fatal condition.
type Source interface {
	Poll() ([]Signal, error)
	Close() error
}

// Multi merges several transports into one Source. Poll errors are joined
// but never suppress signals observed on the healthy transports.
func Multi(sources ...Source) Source {
	return multiSource(sources)
}

type multiSource []Source

func (m multiSource) Poll() ([]Signal, error) {
	var out []Signal
	var errs []error
	for _, src := range m {
		sigs, err := src.Poll()
		out = append(out, sigs...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

func (m multiSource) Close() error {
	var errs []error
	for _, src := range m {
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
