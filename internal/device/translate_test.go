package device

import (
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/touchdeck/internal/input"
)

func newTestTranslator(opts TranslatorOptions) *Translator {
	tr := NewTranslator(opts)
	start := tr.start
	tr.now = func() time.Time { return start.Add(250 * time.Millisecond) }
	return tr
}

func touches(t *testing.T, events []input.Event) []input.TouchArgs {
	t.Helper()
	out := make([]input.TouchArgs, 0, len(events))
	for _, e := range events {
		args, ok := input.TouchArgsOf(e)
		require.True(t, ok, "expected touch event, got %s", e.EventID())
		out = append(out, args)
	}
	return out
}

func TestNormalize(t *testing.T) {
	tr := NewTranslator(TranslatorOptions{Strip: image.Rect(0, 0, 801, 101)})

	assert.Equal(t, [2]float64{0, 0}, tr.Normalize(image.Pt(0, 0)))
	assert.Equal(t, [2]float64{1, 1}, tr.Normalize(image.Pt(800, 100)))
	assert.Equal(t, [2]float64{0.5, 0.5}, tr.Normalize(image.Pt(400, 50)))
	assert.Equal(t, [2]float64{1, 0}, tr.Normalize(image.Pt(5000, -3)), "clamped")

	empty := NewTranslator(TranslatorOptions{})
	assert.Equal(t, [2]float64{0, 0}, empty.Normalize(image.Pt(10, 10)))
}

func TestTap(t *testing.T) {
	tr := newTestTranslator(TranslatorOptions{DeviceID: 3, Strip: image.Rect(0, 0, 801, 101)})

	events, err := tr.Tap(TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(200, 25))
	require.NoError(t, err)

	got := touches(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, input.TouchStart, got[0].Touch)
	assert.Equal(t, input.TouchEnd, got[1].Touch)
	for _, s := range got {
		assert.Equal(t, int64(3), s.Device)
		assert.Equal(t, int64(0), s.ID)
		assert.Equal(t, [2]float64{0.25, 0.25}, s.Position())
		assert.Equal(t, 1.0, s.Pressure())
		assert.False(t, s.Is3D)
	}

	in, ok := events[0].(input.InputEvent)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, in.Timestamp)
}

func TestLongTapHolds(t *testing.T) {
	tr := newTestTranslator(TranslatorOptions{Strip: image.Rect(0, 0, 100, 100)})

	events, err := tr.Tap(TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(10, 10))
	require.NoError(t, err)

	var phases []input.Touch
	for _, s := range touches(t, events) {
		phases = append(phases, s.Touch)
	}
	assert.Equal(t, []input.Touch{input.TouchStart, input.TouchMove, input.TouchEnd}, phases)
}

func TestSwipe(t *testing.T) {
	tr := newTestTranslator(TranslatorOptions{Strip: image.Rect(0, 0, 101, 101), SwipeSteps: 3})

	events, err := tr.Swipe(image.Pt(0, 50), image.Pt(100, 50))
	require.NoError(t, err)

	got := touches(t, events)
	require.Len(t, got, 5)
	assert.Equal(t, input.TouchStart, got[0].Touch)
	assert.Equal(t, input.TouchEnd, got[4].Touch)

	wantX := []float64{0, 0.25, 0.5, 0.75, 1}
	for i, s := range got {
		assert.InDelta(t, wantX[i], s.X, 1e-9)
		assert.InDelta(t, 0.5, s.Y, 1e-9)
		if i > 0 && i < 4 {
			assert.Equal(t, input.TouchMove, s.Touch)
		}
	}
}

func TestContactIDsReused(t *testing.T) {
	tr := newTestTranslator(TranslatorOptions{Strip: image.Rect(0, 0, 100, 100)})

	for i := 0; i < 3; i++ {
		events, err := tr.Tap(TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(i, i))
		require.NoError(t, err)
		for _, s := range touches(t, events) {
			assert.Equal(t, int64(0), s.ID, "sequential gestures do not overlap")
		}
	}
	assert.Equal(t, 0, tr.ids.InUse())
	assert.Equal(t, 0, tr.tracker.Len())
}

func TestConcurrentGestures(t *testing.T) {
	tr := NewTranslator(TranslatorOptions{Strip: image.Rect(0, 0, 100, 100), SwipeSteps: 2})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := tr.Swipe(image.Pt(i, 0), image.Pt(99-i, 99))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, tr.tracker.Len())
}

func TestButtons(t *testing.T) {
	tr := newTestTranslator(TranslatorOptions{})

	btn, ok := input.ButtonArgsOf(tr.Key(KeyID(2), input.ButtonPress))
	require.True(t, ok)
	assert.Equal(t, input.ButtonArgs{State: input.ButtonPress, Button: input.Button{Kind: input.ButtonKey, Code: 2}}, btn)

	btn, ok = input.ButtonArgsOf(tr.DialSwitch(DialID(4), input.ButtonRelease))
	require.True(t, ok)
	assert.Equal(t, input.ButtonDial, btn.Button.Kind)
	assert.Equal(t, input.ButtonRelease, btn.State)

	scroll, ok := input.MouseScrollArgsOf(tr.DialRotate(-2))
	require.True(t, ok)
	assert.Equal(t, -2.0, scroll.DY)
}
