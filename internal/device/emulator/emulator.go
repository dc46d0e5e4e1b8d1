// Package emulator provides a GUI touch surface that stands in for the
// Stream Deck Plus touch strip.
//
// Unlike the hardware, which only reports finished taps and swipes, the
// emulator streams every contact as it happens: mouse drags and touch screen
// fingers each become a Start, Move, End sequence, and losing window focus
// cancels whatever is still down.
package emulator

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phinze/touchdeck/internal/device"
	"github.com/phinze/touchdeck/internal/input"
)

// Layout constants
const (
	marginX      = 20 // Left/right margin
	headerHeight = 30 // Title bar height
	footerHeight = 40 // Status and instructions

	// Native Stream Deck Plus strip size
	DefaultStripWidth  = 800
	DefaultStripHeight = 100
)

// queueSize bounds events waiting for the handler before the GUI loop blocks.
const queueSize = 256

// Options configures an Emulator.
type Options struct {
	// DeviceID is reported as TouchArgs.Device.
	DeviceID int64
	// StripSize is the size of the touch surface; zero means the native strip size.
	StripSize image.Point
	// Title is the window title.
	Title string
}

// Emulator is an ebiten window that turns pointer input into input events.
type Emulator struct {
	mu sync.RWMutex

	opts    Options
	surface *device.Surface
	source  func() image.Image

	events chan input.Event
	done   chan struct{}
	stopCh chan struct{}
	once   sync.Once

	// Game loop state
	focused    bool
	cursor     image.Point
	layout     image.Point
	touchIDs   []ebiten.TouchID
	keys       []ebiten.Key
	chars      []rune
	stripImage *ebiten.Image
}

// New creates an emulator delivering events to handler. The handler runs on
// its own goroutine and sees events in the order they happened.
func New(opts Options, handler func(input.Event)) *Emulator {
	if opts.StripSize == (image.Point{}) {
		opts.StripSize = image.Pt(DefaultStripWidth, DefaultStripHeight)
	}
	if opts.Title == "" {
		opts.Title = "touchdeck emulator"
	}
	stripRect := image.Rectangle{Max: opts.StripSize}.Add(image.Pt(marginX, headerHeight))

	e := &Emulator{
		opts:    opts,
		surface: device.NewSurface(opts.DeviceID, stripRect),
		events:  make(chan input.Event, queueSize),
		done:    make(chan struct{}),
		stopCh:  make(chan struct{}),
		focused: true,
	}
	go e.deliver(handler)
	return e
}

// SetStripSource sets the function polled each frame for the strip image.
func (e *Emulator) SetStripSource(fn func() image.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.source = fn
}

// WindowSize returns the emulator window size.
func (e *Emulator) WindowSize() image.Point {
	return image.Pt(2*marginX+e.opts.StripSize.X, headerHeight+e.opts.StripSize.Y+footerHeight)
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window
// is closed or Close is called, and all queued events have been delivered.
func (e *Emulator) RunGUI() error {
	size := e.WindowSize()
	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetWindowTitle(e.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(&game{emu: e})
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}

	e.emit(e.surface.CancelAll()...)
	e.emit(e.surface.Wrap(input.CloseInput{}))
	close(e.events)
	<-e.done
	return err
}

// Close asks the GUI loop to stop.
func (e *Emulator) Close() {
	e.once.Do(func() { close(e.stopCh) })
}

func (e *Emulator) deliver(handler func(input.Event)) {
	defer close(e.done)
	for ev := range e.events {
		handler(ev)
	}
}

func (e *Emulator) emit(events ...input.Event) {
	for _, ev := range events {
		e.events <- ev
	}
}

// game implements ebiten.Game for the emulator.
type game struct {
	emu *Emulator
}

func (g *game) Update() error {
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	g.emu.handleFocus()
	g.emu.handleTouches()
	g.emu.handleMouse()
	g.emu.handleKeyboard()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	e := g.emu
	screen.Fill(color.RGBA{30, 30, 30, 255})

	ebitenutil.DebugPrintAt(screen, e.opts.Title, marginX, 8)

	rect := e.surface.Rect()
	drawRect(screen, rect.Min.X-2, rect.Min.Y-2, rect.Dx()+4, rect.Dy()+4, color.RGBA{60, 60, 60, 255})

	e.mu.RLock()
	source := e.source
	e.mu.RUnlock()
	if source != nil {
		if img := source(); img != nil {
			e.drawStrip(screen, img, rect)
		}
	}

	status := fmt.Sprintf("contacts: %d", e.surface.Active())
	if !e.focused {
		status += " (unfocused)"
	}
	ebitenutil.DebugPrintAt(screen, status, marginX, rect.Max.Y+6)
	ebitenutil.DebugPrintAt(screen, "Click/drag or touch the strip | Scroll | Type", marginX, rect.Max.Y+22)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.emu.WindowSize()
	outside := image.Pt(outsideWidth, outsideHeight)
	if outside != g.emu.layout {
		if g.emu.layout != (image.Point{}) {
			g.emu.emit(g.emu.surface.Wrap(input.ResizeInput{
				ResizeArgs: input.ResizeArgs{Width: outsideWidth, Height: outsideHeight},
			}))
		}
		g.emu.layout = outside
	}
	return size.X, size.Y
}

// drawStrip copies img into the strip area, reusing one texture across frames.
func (e *Emulator) drawStrip(screen *ebiten.Image, img image.Image, rect image.Rectangle) {
	if e.stripImage == nil {
		e.stripImage = ebiten.NewImage(rect.Dx(), rect.Dy())
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Size() == rect.Size() && rgba.Stride == 4*rect.Dx() {
		e.stripImage.WritePixels(rgba.Pix)
	} else {
		e.stripImage.Clear()
		src := ebiten.NewImageFromImage(img)
		e.stripImage.DrawImage(src, nil)
		src.Deallocate()
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	screen.DrawImage(e.stripImage, op)
}

func (e *Emulator) handleFocus() {
	focused := ebiten.IsFocused()
	if focused == e.focused {
		return
	}
	e.focused = focused
	if !focused {
		e.emit(e.surface.CancelAll()...)
	}
	e.emit(e.surface.Wrap(input.FocusInput{Focused: input.FocusArgs(focused)}))
}

func (e *Emulator) handleTouches() {
	e.touchIDs = inpututil.AppendJustPressedTouchIDs(e.touchIDs[:0])
	for _, id := range e.touchIDs {
		if ev, ok := e.surface.Press(device.Pointer(id), image.Pt(ebiten.TouchPosition(id))); ok {
			e.emit(ev)
		}
	}

	e.touchIDs = ebiten.AppendTouchIDs(e.touchIDs[:0])
	for _, id := range e.touchIDs {
		if ev, ok := e.surface.Drag(device.Pointer(id), image.Pt(ebiten.TouchPosition(id))); ok {
			e.emit(ev)
		}
	}

	e.touchIDs = inpututil.AppendJustReleasedTouchIDs(e.touchIDs[:0])
	for _, id := range e.touchIDs {
		if ev, ok := e.surface.Release(device.Pointer(id)); ok {
			e.emit(ev)
		}
	}
}

func (e *Emulator) handleMouse() {
	cursor := image.Pt(ebiten.CursorPosition())
	if cursor != e.cursor {
		e.cursor = cursor
		e.emit(e.surface.Wrap(input.MoveInput{
			Motion: input.MouseCursorArgs{X: float64(cursor.X), Y: float64(cursor.Y)},
		}))
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if ev, ok := e.surface.Press(device.MousePointer, cursor); ok {
			e.emit(ev)
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if ev, ok := e.surface.Drag(device.MousePointer, cursor); ok {
			e.emit(ev)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if ev, ok := e.surface.Release(device.MousePointer); ok {
			e.emit(ev)
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		e.emit(e.surface.Wrap(input.MoveInput{Motion: input.MouseScrollArgs{DX: dx, DY: dy}}))
	}
}

func (e *Emulator) handleKeyboard() {
	e.keys = inpututil.AppendJustPressedKeys(e.keys[:0])
	for _, k := range e.keys {
		e.emit(e.surface.Wrap(keyInput(k, input.ButtonPress)))
	}
	e.keys = inpututil.AppendJustReleasedKeys(e.keys[:0])
	for _, k := range e.keys {
		e.emit(e.surface.Wrap(keyInput(k, input.ButtonRelease)))
	}

	e.chars = ebiten.AppendInputChars(e.chars[:0])
	if len(e.chars) > 0 {
		e.emit(e.surface.Wrap(input.TextInput{Text: input.TextArgs(e.chars)}))
	}
}

func keyInput(k ebiten.Key, state input.ButtonState) input.ButtonInput {
	return input.ButtonInput{ButtonArgs: input.ButtonArgs{
		State:  state,
		Button: input.Button{Kind: input.ButtonKeyboard, Code: int(k)},
	}}
}

// Helper function to draw a filled rectangle
func drawRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	rect := ebiten.NewImage(w, h)
	rect.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(rect, op)
}
