package device

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/touchdeck/internal/input"
)

func mustTouch(t *testing.T, ev input.Event, ok bool) input.TouchArgs {
	t.Helper()
	require.True(t, ok)
	args, isTouch := input.TouchArgsOf(ev)
	require.True(t, isTouch)
	return args
}

func TestSurfaceLifecycle(t *testing.T) {
	s := NewSurface(5, image.Rect(100, 100, 201, 201))

	ev, ok := s.Press(MousePointer, image.Pt(150, 100))
	start := mustTouch(t, ev, ok)
	assert.Equal(t, input.TouchStart, start.Touch)
	assert.Equal(t, int64(5), start.Device)
	assert.Equal(t, [2]float64{0.5, 0}, start.Position())

	_, ok = s.Press(MousePointer, image.Pt(150, 150))
	assert.False(t, ok, "already down")

	_, ok = s.Drag(MousePointer, image.Pt(150, 100))
	assert.False(t, ok, "no movement")

	ev, ok = s.Drag(MousePointer, image.Pt(500, 200))
	move := mustTouch(t, ev, ok)
	assert.Equal(t, input.TouchMove, move.Touch)
	assert.Equal(t, [2]float64{1, 1}, move.Position(), "clamped to the surface")

	ev, ok = s.Release(MousePointer)
	end := mustTouch(t, ev, ok)
	assert.Equal(t, input.TouchEnd, end.Touch)
	assert.Equal(t, move.Position(), end.Position())
	assert.Equal(t, start.ID, end.ID)
	assert.Equal(t, 0, s.Active())

	_, ok = s.Release(MousePointer)
	assert.False(t, ok)
}

func TestSurfaceMultiTouch(t *testing.T) {
	s := NewSurface(0, image.Rect(0, 0, 100, 100))

	ev, ok := s.Press(Pointer(7), image.Pt(10, 10))
	a := mustTouch(t, ev, ok)
	ev, ok = s.Press(Pointer(9), image.Pt(90, 90))
	b := mustTouch(t, ev, ok)
	assert.NotEqual(t, a.ID, b.ID, "overlapping contacts get distinct ids")

	_, ok = s.Press(Pointer(3), image.Pt(150, 10))
	assert.False(t, ok, "off the surface")

	_, ok = s.Release(Pointer(7))
	require.True(t, ok)
	ev, ok = s.Press(Pointer(8), image.Pt(50, 50))
	c := mustTouch(t, ev, ok)
	assert.Equal(t, a.ID, c.ID, "released id is reused")
}

func TestSurfaceCancelAll(t *testing.T) {
	s := NewSurface(0, image.Rect(0, 0, 100, 100))
	_, ok := s.Press(Pointer(1), image.Pt(10, 10))
	require.True(t, ok)
	_, ok = s.Press(MousePointer, image.Pt(20, 10))
	require.True(t, ok)

	events := s.CancelAll()
	require.Len(t, events, 2)
	for _, ev := range events {
		args := mustTouch(t, ev, true)
		assert.Equal(t, input.TouchCancel, args.Touch)
	}
	assert.Equal(t, 0, s.Active())

	_, ok = s.Drag(Pointer(1), image.Pt(30, 30))
	assert.False(t, ok)
}

func TestSurfaceWrap(t *testing.T) {
	s := NewSurface(0, image.Rect(0, 0, 1, 1))
	ev := s.Wrap(input.TextInput{Text: "a"})
	assert.Equal(t, input.TextEventID, ev.EventID())
}
