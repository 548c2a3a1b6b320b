//go:build !linux

package main

import (
	"os"
	"runtime"
)

func init() {
	// Core Audio and the GUI toolkit both want the main thread.
	runtime.LockOSThread()
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI() // takes the main thread, calls run() in a goroutine
			return
		}
	}
	run()
}
