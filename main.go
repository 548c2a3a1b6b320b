package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pill/audio"
	"pill/config"
	"pill/doctor"
	"pill/log"
	"pill/overlay"
	"pill/sched"
	"pill/shutdown"
	"pill/signals"
)

var version = "dev"

// Set by initGUI in gui builds; run() falls back to the TUI otherwise.
var guiMode bool
var sink EventSink

var closeRequested atomic.Bool

// requestClose arms the exit morph. The morph task picks it up on its
// next tick so all state mutation stays on the scheduler goroutine.
func requestClose() {
	closeRequested.Store(true)
}

var shutdownOnce sync.Once
var (
	activeSched    *sched.Scheduler
	activeSampler  *audio.Sampler
	activeSource   signals.Source
	activeAudioCtx audio.Context
	tuiProgram     *tea.Program
	guiQuit        func()
)

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		log.SessionEnd("shutdown")
		if activeSched != nil {
			activeSched.Stop()
		}
		if activeSampler != nil {
			activeSampler.Close()
		}
		if activeSource != nil {
			activeSource.Close()
		}
		if activeAudioCtx != nil {
			activeAudioCtx.Close()
		}
		log.Close()
		if tuiProgram != nil {
			tuiProgram.Quit()
		}
		if guiQuit != nil {
			guiQuit()
		}
		os.Exit(0)
	})
}

// pollSignals folds one signal poll into the overlay state and reacts to
// the transitions it produced. Transport errors get their own
// signal_check_failed event and are absorbed; returning them as well would
// have the scheduler record the same failure a second time.
func pollSignals(state *overlay.State, sampler *audio.Sampler, src signals.Source) error {
	observed, err := src.Poll()
	var f overlay.SignalFlags
	for _, sig := range observed {
		log.SignalObserved(sig.String())
		switch sig {
		case signals.Processing:
			f.Processing = true
		case signals.Offline:
			f.Offline = true
		case signals.Close:
			f.Close = true
		}
	}
	for _, tr := range state.Apply(f) {
		switch tr {
		case overlay.TransitionProcessing:
			sampler.SetProcessing(true)
			log.ModeChange("processing")
		case overlay.TransitionOffline:
			log.ModeChange("offline")
		case overlay.TransitionClosing:
			log.ModeChange("closing")
		}
	}
	if err != nil {
		log.SignalCheckFailed(err)
	}
	return nil
}

func run() {
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	fakeFlag := flag.Bool("fake", false, "Use a synthetic audio source instead of a microphone")
	guiFlag := flag.Bool("gui", false, "Run the desktop overlay (requires a gui build)")
	signalDirFlag := flag.String("signaldir", "", "Directory watched for signal flag files")
	socketFlag := flag.String("socket", "", "Unix socket path for signal delivery")
	configFlag := flag.String("config", "", "Config file path (default: OS-specific location)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	cfg, err := config.Load(config.Path(*configFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if *signalDirFlag != "" {
		cfg.SignalDir = *signalDirFlag
	}
	if *socketFlag != "" {
		cfg.SocketPath = *socketFlag
	}
	if *guiFlag || guiMode {
		cfg.Renderer = "gui"
	}

	logArg := *logPathFlag
	if logArg == "" {
		logArg = cfg.LogDir
	}
	logPath, err := log.ResolveDir(logArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("pill %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg))
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	log.SessionStart(cfg.Renderer, cfg.SignalDir)

	var audioCtx audio.Context
	if *fakeFlag {
		audioCtx = audio.NewFakeContext()
	} else {
		audioCtx, err = audio.NewContext()
		if err != nil {
			log.Errorf("audio context init error: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: no audio context, waveform will be static: %v\n", err)
			audioCtx = nil
		}
	}
	activeAudioCtx = audioCtx

	var selectedDevice *audio.DeviceInfo
	if audioCtx != nil {
		if *deviceFlag != "" {
			if devices, err := audioCtx.Devices(); err == nil {
				for i := range devices {
					if devices[i].Name == *deviceFlag {
						selectedDevice = &devices[i]
						break
					}
				}
			}
		} else if *setupFlag {
			selectedDevice, err = audio.SelectDevice(audioCtx)
			if err != nil {
				log.Warnf("device selection failed: %v", err)
				fmt.Printf("Warning: device selection failed: %v\n", err)
				fmt.Println("Falling back to default device")
				selectedDevice = nil
			}
		}
	}

	sampler := audio.NewSampler(audioCtx, selectedDevice)
	if err := sampler.Setup(); err != nil {
		log.Errorf("sampler setup error: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: %v, waveform will be static\n", err)
	}
	activeSampler = sampler

	sources := []signals.Source{signals.NewFileSource(cfg.SignalDir)}
	if cfg.SocketPath != "" {
		ss, err := signals.NewSocketSource(cfg.SocketPath)
		if err != nil {
			log.Errorf("signal socket error: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: signal socket unavailable: %v\n", err)
		} else {
			sources = append(sources, ss)
		}
	}
	src := signals.Multi(sources...)
	activeSource = src

	state := overlay.New()

	if !guiMode {
		if cfg.Renderer == "gui" {
			fmt.Fprintln(os.Stderr, "Warning: renderer = \"gui\" needs the -gui flag and a gui build; using the TUI")
		}
		tuiProgram = NewTUIProgram(cfg.Accent, requestClose)
		sink = &tuiSink{p: tuiProgram}
	}

	s := sched.New()
	activeSched = s

	s.Add(sched.Task{
		Name:  "morph",
		Every: cfg.MorphTick(),
		Run: func() error {
			if closeRequested.CompareAndSwap(true, false) {
				state.BeginClose()
			}
			if state.StepMorph() == overlay.MorphTerminal {
				sink.Dismissed()
			}
			return nil
		},
		OnError: func() { state.ForceVisible() },
	})

	s.Add(sched.Task{
		Name:  "animate",
		Every: cfg.AnimationTick(),
		Run: func() error {
			state.StepAnimation()
			sink.Frame(state.Snapshot())
			return nil
		},
	})

	s.Add(sched.Task{
		Name:  "audio",
		Every: cfg.AudioTick(),
		Run: func() error {
			state.UpdateLevels(sampler.Level())
			return nil
		},
	})

	s.Add(sched.Task{
		Name:  "signals",
		Every: cfg.SignalTick(),
		Run: func() error {
			return pollSignals(state, sampler, src)
		},
	})

	s.Start()

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		requestClose()
		<-sigChan
		gracefulShutdown()
	}()

	if guiMode {
		// The Fyne loop owns the process lifetime; nothing left to do here.
		return
	}

	if _, err := tuiProgram.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
		os.Exit(1)
	}
	gracefulShutdown()
}
