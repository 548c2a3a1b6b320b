//go:build !windows

// Package shutdown wires OS termination signals to the overlay's
// close sequence.
package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

// Notify registers the signals that should start the close morph.
// SIGHUP is included so the overlay dismisses with its terminal.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
}
