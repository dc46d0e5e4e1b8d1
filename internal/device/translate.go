package device

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/phinze/touchdeck/internal/contact"
	"github.com/phinze/touchdeck/internal/input"
)

// stripPressure is reported for strip contacts; the strip has no pressure sensor.
const stripPressure = 1.0

// TranslatorOptions configures a Translator.
type TranslatorOptions struct {
	// DeviceID is reported as TouchArgs.Device.
	DeviceID int64
	// Strip is the touch strip rectangle used to normalize positions.
	Strip image.Rectangle
	// SwipeSteps is the number of Move samples interpolated per swipe.
	SwipeSteps int
	// Strict rejects gestures containing samples that fail validation.
	Strict bool
}

// Translator turns raw Stream Deck callbacks into input events.
// It is safe for concurrent use; device handlers run on their own goroutines.
type Translator struct {
	mu      sync.Mutex
	opts    TranslatorOptions
	ids     *contact.Allocator
	tracker *contact.Tracker
	start   time.Time
	now     func() time.Time
}

// NewTranslator creates a translator. Timestamps count from now.
func NewTranslator(opts TranslatorOptions) *Translator {
	return &Translator{
		opts:    opts,
		ids:     contact.NewAllocator(),
		tracker: contact.NewTracker(),
		start:   time.Now(),
		now:     time.Now,
	}
}

// Normalize maps a strip point to 0..1 coordinates.
func (t *Translator) Normalize(p image.Point) [2]float64 {
	return NormalizePoint(t.opts.Strip, p)
}

// NormalizePoint maps p to 0..1 coordinates within r, clamping points
// outside r to its edge. The last pixel row and column map to exactly 1.
func NormalizePoint(r image.Rectangle, p image.Point) [2]float64 {
	return [2]float64{
		normalizeAxis(p.X, r.Min.X, r.Dx()),
		normalizeAxis(p.Y, r.Min.Y, r.Dy()),
	}
}

func normalizeAxis(v, min, size int) float64 {
	if size <= 1 {
		return 0
	}
	f := float64(v-min) / float64(size-1)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Tap converts a strip tap into a Start and End sample at p. A long tap
// also carries a stationary Move in between so consumers can tell a hold
// from a tap.
func (t *Translator) Tap(kind TouchStripTouchType, p image.Point) ([]input.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos := t.Normalize(p)
	phases := []input.Touch{input.TouchStart, input.TouchEnd}
	if kind == TOUCH_STRIP_TOUCH_TYPE_LONG {
		phases = []input.Touch{input.TouchStart, input.TouchMove, input.TouchEnd}
	}
	positions := make([][2]float64, len(phases))
	for i := range positions {
		positions[i] = pos
	}
	return t.gesture(phases, positions)
}

// Swipe converts a strip swipe into Start at origin, SwipeSteps Move samples
// interpolated along the path, and End at destination.
func (t *Translator) Swipe(origin, destination image.Point) ([]input.Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	from, to := t.Normalize(origin), t.Normalize(destination)
	steps := t.opts.SwipeSteps

	phases := []input.Touch{input.TouchStart}
	positions := [][2]float64{from}
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps+1)
		phases = append(phases, input.TouchMove)
		positions = append(positions, [2]float64{
			from[0] + (to[0]-from[0])*f,
			from[1] + (to[1]-from[1])*f,
		})
	}
	phases = append(phases, input.TouchEnd)
	positions = append(positions, to)

	return t.gesture(phases, positions)
}

// gesture builds one contact's samples. Must be called with t.mu held.
func (t *Translator) gesture(phases []input.Touch, positions [][2]float64) ([]input.Event, error) {
	id := t.ids.Acquire()
	defer t.ids.Release(id)

	samples := make([]input.TouchArgs, len(phases))
	for i, phase := range phases {
		samples[i] = input.NewTouchArgs(t.opts.DeviceID, id, positions[i], stripPressure, phase)
		if t.opts.Strict {
			if err := samples[i].Validate(); err != nil {
				return nil, fmt.Errorf("strip gesture: %w", err)
			}
		}
	}

	ts := t.elapsed()
	events := make([]input.Event, 0, len(samples))
	for _, s := range samples {
		if err := t.tracker.Observe(s); err != nil {
			return nil, fmt.Errorf("strip gesture: %w", err)
		}
		events = append(events, input.NewTouchEvent(s, ts))
	}
	return events, nil
}

// Key converts a key press or release into a button event.
func (t *Translator) Key(id KeyID, state input.ButtonState) input.Event {
	return t.button(input.ButtonKey, int(id), state)
}

// DialSwitch converts a dial press or release into a button event.
func (t *Translator) DialSwitch(id DialID, state input.ButtonState) input.Event {
	return t.button(input.ButtonDial, int(id), state)
}

// DialRotate converts dial rotation into vertical scroll; positive delta is
// clockwise. Scroll payloads do not say which dial turned.
func (t *Translator) DialRotate(delta int8) input.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	scroll := input.MouseScrollArgs{DY: float64(delta)}
	return input.NewInputEvent(input.MoveInput{Motion: scroll}, t.elapsed())
}

func (t *Translator) button(kind input.ButtonKind, code int, state input.ButtonState) input.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	args := input.ButtonArgs{State: state, Button: input.Button{Kind: kind, Code: code}}
	return input.NewInputEvent(input.ButtonInput{ButtonArgs: args}, t.elapsed())
}

func (t *Translator) elapsed() time.Duration {
	return t.now().Sub(t.start)
}
