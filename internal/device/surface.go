package device

import (
	"image"
	"sync"
	"time"

	"github.com/phinze/touchdeck/internal/contact"
	"github.com/phinze/touchdeck/internal/input"
)

// Pointer identifies something that can touch a Surface: a touch screen
// finger id or the mouse.
type Pointer int

// MousePointer is the mouse acting as a single touch contact.
const MousePointer Pointer = -1

// Surface turns pointer positions on a rectangle into touch samples with a
// proper Start, Move, End lifecycle. It is what the emulator uses instead of
// the strip's tap/swipe callbacks, which only report finished gestures.
// It is safe for concurrent use.
type Surface struct {
	mu       sync.Mutex
	deviceID int64
	rect     image.Rectangle
	ids      *contact.Allocator
	tracker  *contact.Tracker
	pointers map[Pointer]int64
	start    time.Time
	now      func() time.Time
}

// NewSurface creates a surface covering rect in window coordinates.
func NewSurface(deviceID int64, rect image.Rectangle) *Surface {
	return &Surface{
		deviceID: deviceID,
		rect:     rect,
		ids:      contact.NewAllocator(),
		tracker:  contact.NewTracker(),
		pointers: make(map[Pointer]int64),
		start:    time.Now(),
		now:      time.Now,
	}
}

// Rect returns the surface rectangle.
func (s *Surface) Rect() image.Rectangle {
	return s.rect
}

// Contains reports whether p lies on the surface.
func (s *Surface) Contains(p image.Point) bool {
	return p.In(s.Rect())
}

// Press starts a contact for ptr at p. It reports false when p is off the
// surface or ptr is already down.
func (s *Surface) Press(ptr Pointer, p image.Point) (input.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Contains(p) {
		return nil, false
	}
	if _, down := s.pointers[ptr]; down {
		return nil, false
	}
	id := s.ids.Acquire()
	s.pointers[ptr] = id
	return s.sample(id, NormalizePoint(s.rect, p), input.TouchStart)
}

// Drag moves the contact of ptr to p, clamped to the surface. It reports
// false when ptr is not down or has not moved.
func (s *Surface) Drag(ptr Pointer, p image.Point) (input.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, down := s.pointers[ptr]
	if !down {
		return nil, false
	}
	pos := NormalizePoint(s.rect, p)
	if last, ok := s.tracker.Last(contact.Key{Device: s.deviceID, ID: id}); ok && last.Position() == pos {
		return nil, false
	}
	return s.sample(id, pos, input.TouchMove)
}

// Release ends the contact of ptr where it was last seen.
func (s *Surface) Release(ptr Pointer) (input.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, down := s.pointers[ptr]
	if !down {
		return nil, false
	}
	delete(s.pointers, ptr)
	defer s.ids.Release(id)

	last, ok := s.tracker.Last(contact.Key{Device: s.deviceID, ID: id})
	if !ok {
		return nil, false
	}
	return s.sample(id, last.Position(), input.TouchEnd)
}

// CancelAll cancels every active contact, e.g. when the window loses focus.
func (s *Surface) CancelAll() []input.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.elapsed()
	cancels := s.tracker.CancelAll()
	events := make([]input.Event, 0, len(cancels))
	for _, args := range cancels {
		s.ids.Release(args.ID)
		events = append(events, input.NewTouchEvent(args, ts))
	}
	clear(s.pointers)
	return events
}

// Active returns the number of pointers currently down.
func (s *Surface) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pointers)
}

// Wrap timestamps a non-touch input from the same source.
func (s *Surface) Wrap(in input.Input) input.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return input.NewInputEvent(in, s.elapsed())
}

// sample must be called with s.mu held.
func (s *Surface) sample(id int64, pos [2]float64, phase input.Touch) (input.Event, bool) {
	args := input.NewTouchArgs(s.deviceID, id, pos, stripPressure, phase)
	if err := s.tracker.Observe(args); err != nil {
		return nil, false
	}
	return input.NewTouchEvent(args, s.elapsed()), true
}

func (s *Surface) elapsed() time.Duration {
	return s.now().Sub(s.start)
}
