//go:build gui

package gui

import (
	_ "embed"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/go-gl/glfw/v3.3/glfw"

	"pill/overlay"
)

//go:embed assets/tray.png
var trayIcon []byte

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	pill    *PillWidget
	onReady func()
	posX    int
	posY    int
}

func NewApp(onReady func()) *App {
	return &App{onReady: onReady}
}

func Run(a *App) error {
	a.fyneApp = app.NewWithID("io.pill.overlay")
	a.fyneApp.Settings().SetTheme(&darkTheme{})

	if desk, ok := a.fyneApp.(desktop.App); ok {
		icon := fyne.NewStaticResource("tray.png", trayIcon)
		menu := fyne.NewMenu("pill",
			fyne.NewMenuItem("Quit", func() {
				a.fyneApp.Quit()
			}),
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(icon)
	}

	var screenW, screenH int
	monitor := glfw.GetPrimaryMonitor()
	if monitor != nil {
		_, _, screenW, screenH = monitor.GetWorkarea()
	} else {
		screenW, screenH = 1920, 1080 // fallback
	}

	// Frameless splash window so the pill floats without decorations.
	if drv, ok := a.fyneApp.Driver().(desktop.Driver); ok {
		a.window = drv.CreateSplashWindow()
	} else {
		a.window = a.fyneApp.NewWindow("pill")
	}

	a.pill = NewPillWidget()

	a.window.SetContent(a.pill)
	a.window.SetFixedSize(true)
	a.window.SetPadded(false)

	pillSize := a.pill.MinSize()
	a.window.Resize(pillSize)

	// Bottom-center, clear of the dock.
	a.posX = (screenW - int(pillSize.Width)) / 2
	a.posY = screenH - int(pillSize.Height) - 20

	go a.onReady()

	// Stays hidden until the first frame arrives.
	a.fyneApp.Run()
	return nil
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		a.fyneApp.Quit()
	}
}

func (a *App) show() {
	fyne.Do(func() {
		if a.window == nil {
			return
		}
		if glfwWin := glfw.GetCurrentContext(); glfwWin != nil {
			glfwWin.SetPos(a.posX, a.posY)
			glfwWin.SetAttrib(glfw.FocusOnShow, glfw.False)
			glfwWin.SetAttrib(glfw.Floating, glfw.True)
			glfwWin.Show()
		} else {
			a.window.Show()
		}
	})
}

// EventSink implementation, called from the scheduler goroutine.

func (a *App) Frame(snap overlay.Snapshot) {
	if a.pill == nil {
		return
	}
	if a.pill.SetSnapshot(snap) {
		a.show()
	}
}

func (a *App) Dismissed() {
	fyne.Do(func() {
		if a.window != nil {
			a.window.Hide()
		}
	})
	a.Quit()
}
