//go:build gui

package gui

import (
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"pill/overlay"
)

const (
	pillMaxWidth = 320.0
	pillHeight   = 56.0
	barWidth     = 9.0
	barGap       = 5.0
	barMaxH      = 30.0
	clockWidth   = 48.0
)

var (
	pillFill   = color.NRGBA{24, 24, 32, 235}
	pillStroke = color.NRGBA{122, 162, 247, 255}
	barColor   = color.NRGBA{80, 220, 140, 255}
	textColor  = color.NRGBA{200, 200, 200, 255}
	warnColor  = color.NRGBA{255, 80, 80, 255}
	spinColor  = color.NRGBA{255, 200, 60, 255}
)

var spinGlyphs = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// PillWidget draws the capsule overlay from the latest snapshot. The
// scheduler publishes snapshots; all drawing happens on the Fyne thread.
type PillWidget struct {
	widget.BaseWidget
	mu   sync.Mutex
	snap overlay.Snapshot
	have bool
}

func NewPillWidget() *PillWidget {
	p := &PillWidget{}
	p.ExtendBaseWidget(p)
	return p
}

// SetSnapshot stores the frame and schedules a redraw. It reports
// whether this was the first frame, so the window can be shown then.
func (p *PillWidget) SetSnapshot(s overlay.Snapshot) bool {
	p.mu.Lock()
	first := !p.have
	p.have = true
	p.snap = s
	p.mu.Unlock()
	fyne.Do(func() {
		p.Refresh()
	})
	return first
}

func (p *PillWidget) snapshot() overlay.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

func (p *PillWidget) MinSize() fyne.Size {
	return fyne.NewSize(pillMaxWidth, pillHeight)
}

func (p *PillWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &pillRenderer{pill: p}
	r.background = canvas.NewRectangle(pillFill)
	r.background.CornerRadius = pillHeight / 2
	r.background.StrokeWidth = 2
	r.background.StrokeColor = pillStroke
	for i := range r.bars {
		r.bars[i] = canvas.NewRectangle(barColor)
		r.bars[i].CornerRadius = barWidth / 2
	}
	r.label = canvas.NewText("", textColor)
	r.label.TextSize = 15
	return r
}

type pillRenderer struct {
	pill       *PillWidget
	size       fyne.Size
	background *canvas.Rectangle
	bars       [overlay.NumBars]*canvas.Rectangle
	label      *canvas.Text
}

func (r *pillRenderer) Layout(size fyne.Size) {
	r.size = size
	r.Refresh()
}

func (r *pillRenderer) MinSize() fyne.Size {
	return r.pill.MinSize()
}

func (r *pillRenderer) Refresh() {
	snap := r.pill.snapshot()

	width := float32(snap.Eased) * pillMaxWidth
	if width < 4 {
		r.background.Hide()
		r.label.Hide()
		for _, b := range r.bars {
			b.Hide()
		}
		canvas.Refresh(r.background)
		return
	}

	left := (pillMaxWidth - width) / 2
	r.background.Move(fyne.NewPos(left, 0))
	r.background.Resize(fyne.NewSize(width, pillHeight))
	r.background.Show()

	switch snap.Mode {
	case overlay.ModeOffline:
		r.background.StrokeColor = warnColor
		r.hideBars()
		r.setLabel("check your network", warnColor, left, width)

	case overlay.ModeProcessing:
		r.background.StrokeColor = pillStroke
		r.hideBars()
		glyph := spinGlyphs[spinIndex(snap.SpinnerAngle)]
		r.setLabel(string(glyph)+" processing", spinColor, left, width)

	default:
		r.background.StrokeColor = pillStroke
		r.layoutBars(snap, left, width)
		r.setLabel(snap.Clock, textColor, left, width)
	}

	r.background.Refresh()
	r.label.Refresh()
	for _, b := range r.bars {
		b.Refresh()
	}
}

// layoutBars bottom-aligns the level bars inside the visible capsule,
// hiding any bar the morph has not yet revealed.
func (r *pillRenderer) layoutBars(snap overlay.Snapshot, left, width float32) {
	content := float32(overlay.NumBars*(barWidth+barGap)) + clockWidth
	start := left + (width-content)/2
	if start < left {
		start = left
	}
	baseline := float32(pillHeight/2 + barMaxH/2)

	for i, b := range r.bars {
		x := start + float32(i)*(barWidth+barGap)
		if x < left+8 || x+barWidth > left+width-8 {
			b.Hide()
			continue
		}
		h := float32(snap.Bars[i]) * barMaxH
		if h < 3 {
			h = 3
		}
		b.Move(fyne.NewPos(x, baseline-h))
		b.Resize(fyne.NewSize(barWidth, h))
		b.Show()
	}
}

func (r *pillRenderer) hideBars() {
	for _, b := range r.bars {
		b.Hide()
	}
}

func (r *pillRenderer) setLabel(text string, c color.Color, left, width float32) {
	r.label.Text = text
	r.label.Color = c

	ts := fyne.MeasureText(text, r.label.TextSize, r.label.TextStyle)
	x := left + width - ts.Width - 16
	if text != "" && snapIsMessage(text) {
		x = left + (width-ts.Width)/2
	}
	if x < left+8 {
		x = left + 8
	}
	r.label.Move(fyne.NewPos(x, (pillHeight-ts.Height)/2))
	r.label.Show()
}

// Messages are centered; the clock hugs the right edge next to the bars.
func snapIsMessage(text string) bool {
	return len(text) > 0 && (text[0] < '0' || text[0] > '9')
}

func spinIndex(angle float64) int {
	idx := int(angle / (2 * math.Pi) * float64(len(spinGlyphs)))
	if idx < 0 {
		idx = 0
	}
	return idx % len(spinGlyphs)
}

func (r *pillRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(r.bars)+2)
	objs = append(objs, r.background)
	for _, b := range r.bars {
		objs = append(objs, b)
	}
	return append(objs, r.label)
}

func (r *pillRenderer) Destroy() {}
