// Package sched runs the overlay's periodic tick handlers.
//
// Every task declares a fixed interval and a handler returning error. Ticker
// goroutines only enqueue work; a single executor goroutine runs the handlers
// one at a time, so everything they mutate is effectively single-threaded and
// needs no locks. A handler failure (returned error or panic) is logged,
// optionally answered by the task's fallback, and never stops the scheduler.
package sched

import (
	"fmt"
	"sync"
	"time"

	"pill/log"
)

// Task is one periodic (or one-shot) tick handler.
type Task struct {
	Name  string
	Every time.Duration // interval; one-shot when Once is set
	Once  bool          // run a single time after Every, then stop
	Run   func() error
	// OnError, if set, runs after a failed or panicked Run. It is the
	// "safe outcome" converter: the morph task uses it to force the
	// overlay visible instead of leaving it stranded mid-fade.
	OnError func()
}

// Scheduler multiplexes tasks onto one executor goroutine.
type Scheduler struct {
	tasks    []Task
	jobs     chan int // index into tasks
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  bool
}

// New returns an empty scheduler. Add tasks before Start; the task set is
// fixed once running.
func New() *Scheduler {
	return &Scheduler{
		jobs:   make(chan int, 64),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Add registers a task. Panics if called after Start, which would race the
// executor.
func (s *Scheduler) Add(t Task) {
	if s.started {
		panic("sched: Add after Start")
	}
	if t.Every <= 0 {
		panic(fmt.Sprintf("sched: task %q has no interval", t.Name))
	}
	s.tasks = append(s.tasks, t)
}

// Start launches the ticker and executor goroutines.
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true

	for i := range s.tasks {
		go s.tick(i)
	}
	go s.execute()
}

func (s *Scheduler) tick(i int) {
	t := s.tasks[i]
	if t.Once {
		timer := time.NewTimer(t.Every)
		defer timer.Stop()
		select {
		case <-s.stopCh:
		case <-timer.C:
			s.enqueue(i)
		}
		return
	}

	ticker := time.NewTicker(t.Every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.enqueue(i)
		}
	}
}

func (s *Scheduler) enqueue(i int) {
	// Drop the tick if the executor is behind; the next one supersedes it.
	select {
	case <-s.stopCh:
	case s.jobs <- i:
	default:
	}
}

func (s *Scheduler) execute() {
	defer close(s.done)
	for {
		select {
		case <-s.stopCh:
			return
		case i := <-s.jobs:
			s.runSafe(s.tasks[i])
		}
	}
}

// runSafe is the single scheduler-level adapter around every handler:
// it converts errors and panics into a logged event plus the task's
// fallback, keeping the tick loop alive.
func (s *Scheduler) runSafe(t Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Tick(t.Name, fmt.Errorf("panic: %v", r))
			if t.OnError != nil {
				t.OnError()
			}
		}
	}()
	if err := t.Run(); err != nil {
		log.Tick(t.Name, err)
		if t.OnError != nil {
			t.OnError()
		}
	}
}

// Stop halts all ticking. Idempotent and safe to call from inside a handler;
// racing stop triggers close the latch exactly once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Done is closed once the executor has exited after Stop.
func (s *Scheduler) Done() <-chan struct{} { return s.done }
