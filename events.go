package main

import "pill/overlay"

// EventSink abstracts the display layer so both the Bubble Tea TUI
// and the Fyne GUI can consume the same overlay frames.
type EventSink interface {
	// Frame delivers a fresh snapshot. Called from the scheduler
	// goroutine; implementations must not block.
	Frame(snap overlay.Snapshot)

	// Dismissed fires once, after the close morph reaches zero.
	Dismissed()
}
