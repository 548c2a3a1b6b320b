//go:build gui

package main

import (
	"runtime"

	"pill/gui"
)

var guiApp *gui.App

func initGUI() {
	guiMode = true

	// Fyne/GLFW must own the main thread.
	runtime.LockOSThread()

	guiApp = gui.NewApp(func() {
		run()
	})
	sink = guiApp
	guiQuit = guiApp.Quit
	if err := gui.Run(guiApp); err != nil {
		panic(err)
	}
	gracefulShutdown()
}
