package main

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pill/overlay"
)

func TestSpinnerIndexStaysInRange(t *testing.T) {
	for angle := 0.0; angle < 2*math.Pi+0.5; angle += 0.01 {
		idx := spinnerIndex(angle)
		if idx < 0 || idx >= len(spinnerFrames) {
			t.Fatalf("angle %v: index %d out of range", angle, idx)
		}
	}
}

func TestPillContentRecording(t *testing.T) {
	var snap overlay.Snapshot
	snap.Mode = overlay.ModeRecording
	snap.Clock = "2:05"
	for i := range snap.Bars {
		snap.Bars[i] = 0.5
	}

	content, _ := pillContent(snap)
	runes := []rune(content)
	want := overlay.NumBars + 1 + len("2:05")
	if len(runes) != want {
		t.Fatalf("content length: got %d, want %d (%q)", len(runes), want, content)
	}
	if !strings.HasSuffix(content, "2:05") {
		t.Fatalf("clock missing from %q", content)
	}
}

func TestPillContentBarHeightsClamp(t *testing.T) {
	var snap overlay.Snapshot
	snap.Bars[0] = -5
	snap.Bars[1] = 99

	content, _ := pillContent(snap)
	runes := []rune(content)
	if runes[0] != levelBlocks[0] {
		t.Fatalf("negative bar: got %q, want %q", runes[0], levelBlocks[0])
	}
	if runes[1] != levelBlocks[len(levelBlocks)-1] {
		t.Fatalf("huge bar: got %q, want %q", runes[1], levelBlocks[len(levelBlocks)-1])
	}
}

func TestPillContentStatusModes(t *testing.T) {
	var snap overlay.Snapshot

	snap.Mode = overlay.ModeProcessing
	content, _ := pillContent(snap)
	if !strings.Contains(content, "processing") {
		t.Fatalf("processing content: %q", content)
	}

	snap.Mode = overlay.ModeOffline
	content, _ = pillContent(snap)
	if content != "check your network" {
		t.Fatalf("offline content: %q", content)
	}
}

func TestQuitKeyArmsCloseThenQuits(t *testing.T) {
	closed := 0
	m := tuiModel{onClose: func() { closed++ }}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if closed != 1 {
		t.Fatalf("first press: onClose called %d times", closed)
	}
	if cmd != nil {
		t.Fatal("first press must not quit")
	}

	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("second press must quit")
	}
	if closed != 1 {
		t.Fatalf("second press: onClose called %d times", closed)
	}
}

func TestDismissedMessageQuits(t *testing.T) {
	m := tuiModel{}
	_, cmd := m.Update(DismissedMsg{})
	if cmd == nil {
		t.Fatal("dismissal must quit the program")
	}
}
