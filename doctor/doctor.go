// Package doctor runs interactive diagnostics for the overlay: log
// directory, signal delivery, and microphone capture.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pill/audio"
	"pill/config"
	"pill/log"
	"pill/signals"
)

// Run executes the diagnostic checks and returns an exit code
// (0=all pass, 1=any fail).
func Run(cfg config.Config) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("pill doctor - system diagnostics")
	fmt.Println("================================")

	allPass := true

	if !checkLogDir() {
		allPass = false
	}
	if !checkSignals(cfg) {
		allPass = false
	}
	if !checkMicrophone() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

func checkLogDir() bool {
	fmt.Println()
	fmt.Println("[1/3] Log directory")

	dir := log.Dir()
	if err := log.EnsureDir(); err != nil {
		fmt.Printf("  FAIL: cannot create %s: %v\n", dir, err)
		return false
	}

	probe := filepath.Join(dir, ".doctor_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		fmt.Printf("  FAIL: %s not writable: %v\n", dir, err)
		return false
	}
	os.Remove(probe)

	fmt.Printf("  PASS: %s writable\n", dir)
	return true
}

func checkSignals(cfg config.Config) bool {
	fmt.Println()
	fmt.Println("[2/3] Signal delivery")

	fs := signals.NewFileSource(cfg.SignalDir)
	defer fs.Close()

	if err := fs.Raise(signals.Processing); err != nil {
		fmt.Printf("  FAIL: cannot write flag file in %s: %v\n", fs.Dir(), err)
		return false
	}

	observed, err := fs.Poll()
	if err != nil {
		fmt.Printf("  FAIL: poll error: %v\n", err)
		return false
	}
	found := false
	for _, sig := range observed {
		if sig == signals.Processing {
			found = true
		}
	}
	if !found {
		fmt.Printf("  FAIL: raised flag not observed in %s\n", fs.Dir())
		return false
	}
	if _, err := os.Stat(fs.FlagPath(signals.Processing)); !os.IsNotExist(err) {
		fmt.Println("  FAIL: flag file not consumed after poll")
		return false
	}
	fmt.Printf("  PASS: file signal round-trip in %s\n", fs.Dir())

	if cfg.SocketPath != "" {
		ss, err := signals.NewSocketSource(cfg.SocketPath)
		if err != nil {
			fmt.Printf("  FAIL: cannot listen on %s: %v\n", cfg.SocketPath, err)
			return false
		}
		ss.Close()
		fmt.Printf("  PASS: socket %s available\n", cfg.SocketPath)
	}
	return true
}

func checkMicrophone() bool {
	fmt.Println()
	fmt.Println("[3/3] Microphone capture")

	ctx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer ctx.Close()

	devices, err := ctx.Devices()
	if err != nil {
		fmt.Printf("  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Println("  FAIL: no capture devices found")
		return false
	}
	for _, d := range devices {
		fmt.Printf("  found: %s\n", d.Name)
	}

	dev, err := ctx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	})
	if err != nil {
		fmt.Printf("  FAIL: cannot open default device: %v\n", err)
		return false
	}
	defer dev.Close()

	levels := make(chan float64, 256)
	dev.SetCallback(func(data []byte, _ uint32) {
		select {
		case levels <- audio.LevelFromPCM(data):
		default:
		}
	})
	if err := dev.Start(); err != nil {
		fmt.Printf("  FAIL: cannot start capture: %v\n", err)
		return false
	}

	fmt.Print("  Speak for 2 seconds...")
	deadline := time.After(2 * time.Second)
	var peak float64
	chunks := 0
collect:
	for {
		select {
		case l := <-levels:
			chunks++
			if l > peak {
				peak = l
			}
		case <-deadline:
			break collect
		}
	}
	dev.Stop()
	fmt.Println(" done")

	if chunks == 0 {
		fmt.Println("  FAIL: no audio data received")
		return false
	}
	fmt.Printf("  PASS: %d chunks, peak level %.2f\n", chunks, peak)
	if peak < 0.02 {
		fmt.Println("  note: very low level, check microphone volume")
	}
	return true
}
