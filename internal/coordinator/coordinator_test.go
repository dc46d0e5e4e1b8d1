package coordinator

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/touchdeck/internal/device"
	"github.com/phinze/touchdeck/internal/input"
	"github.com/phinze/touchdeck/internal/module"
)

// fakeDevice records handlers so tests can fire them directly.
type fakeDevice struct {
	mu         sync.Mutex
	strip      image.Rectangle
	stripImage image.Image

	keyHandlers   map[device.KeyID]device.KeyHandler
	rotate        map[device.DialID]device.DialRotateHandler
	dialSwitch    map[device.DialID]device.DialSwitchHandler
	touchHandler  device.TouchStripTouchHandler
	swipeHandler  device.TouchStripSwipeHandler
	listenRelease chan error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		strip:         image.Rect(0, 0, 800, 100),
		keyHandlers:   make(map[device.KeyID]device.KeyHandler),
		rotate:        make(map[device.DialID]device.DialRotateHandler),
		dialSwitch:    make(map[device.DialID]device.DialSwitchHandler),
		listenRelease: make(chan error, 1),
	}
}

func (f *fakeDevice) Open() error                  { return nil }
func (f *fakeDevice) Close() error                 { return nil }
func (f *fakeDevice) IsOpen() bool                 { return true }
func (f *fakeDevice) GetModelName() string         { return "fake" }
func (f *fakeDevice) GetKeyCount() byte            { return 2 }
func (f *fakeDevice) GetDialCount() byte           { return 1 }
func (f *fakeDevice) GetTouchStripSupported() bool { return true }
func (f *fakeDevice) SetBrightness(byte) error     { return nil }
func (f *fakeDevice) ClearKey(device.KeyID) error  { return nil }

func (f *fakeDevice) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return f.strip, nil
}

func (f *fakeDevice) SetTouchStripImage(img image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stripImage = img
	return nil
}

func (f *fakeDevice) ForEachKey(cb func(device.KeyID) error) error {
	for id := device.KeyID(1); id <= 2; id++ {
		if err := cb(id); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDevice) ForEachDial(cb func(device.DialID) error) error {
	return cb(device.DialID(1))
}

func (f *fakeDevice) AddKeyHandler(key device.KeyID, fn device.KeyHandler) error {
	f.keyHandlers[key] = fn
	return nil
}

func (f *fakeDevice) AddDialRotateHandler(dial device.DialID, fn device.DialRotateHandler) error {
	f.rotate[dial] = fn
	return nil
}

func (f *fakeDevice) AddDialSwitchHandler(dial device.DialID, fn device.DialSwitchHandler) error {
	f.dialSwitch[dial] = fn
	return nil
}

func (f *fakeDevice) AddTouchStripTouchHandler(fn device.TouchStripTouchHandler) error {
	f.touchHandler = fn
	return nil
}

func (f *fakeDevice) AddTouchStripSwipeHandler(fn device.TouchStripSwipeHandler) error {
	f.swipeHandler = fn
	return nil
}

func (f *fakeDevice) Listen(chan error) error {
	return <-f.listenRelease
}

type fakeKey struct{ id device.KeyID }

func (k fakeKey) GetID() device.KeyID            { return k.id }
func (k fakeKey) WaitForRelease() time.Duration { return time.Millisecond }

// sink collects events and can be told to fail.
type sink struct {
	module.BaseModule
	events  []input.Event
	failErr error
	initErr error
	img     image.Image
}

func newSink(id string) *sink {
	return &sink{BaseModule: module.NewBaseModule(id)}
}

func (s *sink) Init(ctx context.Context, res module.Resources) error {
	if s.initErr != nil {
		return s.initErr
	}
	return s.BaseModule.Init(ctx, res)
}

func (s *sink) HandleEvent(ev input.Event) error {
	s.events = append(s.events, ev)
	return s.failErr
}

func (s *sink) RenderStrip() image.Image { return s.img }

func TestDispatchStripGestures(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, device.TranslatorOptions{SwipeSteps: 2})
	s := newSink("sink")
	require.NoError(t, c.RegisterModule(s, module.Resources{}))

	c.Init(context.Background())
	c.hookDevice()
	require.NotNil(t, dev.touchHandler)
	require.NotNil(t, dev.swipeHandler)

	require.NoError(t, dev.touchHandler(dev, device.TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(799, 0)))
	require.NoError(t, dev.swipeHandler(dev, image.Pt(0, 0), image.Pt(799, 99)))

	var phases []input.Touch
	for _, ev := range s.events {
		args, ok := input.TouchArgsOf(ev)
		require.True(t, ok)
		phases = append(phases, args.Touch)
	}
	assert.Equal(t, []input.Touch{
		input.TouchStart, input.TouchEnd,
		input.TouchStart, input.TouchMove, input.TouchMove, input.TouchEnd,
	}, phases)

	first, _ := input.TouchArgsOf(s.events[0])
	assert.Equal(t, [2]float64{1, 0}, first.Position())
}

func TestDispatchButtons(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, device.TranslatorOptions{})
	s := newSink("sink")
	require.NoError(t, c.RegisterModule(s, module.Resources{}))
	c.Init(context.Background())
	c.hookDevice()

	require.Len(t, dev.keyHandlers, 2)
	require.NoError(t, dev.keyHandlers[2](dev, fakeKey{id: 2}))
	require.NoError(t, dev.rotate[1](dev, nil, 3))

	require.Len(t, s.events, 3)
	press, ok := input.ButtonArgsOf(s.events[0])
	require.True(t, ok)
	assert.Equal(t, input.ButtonPress, press.State)
	release, _ := input.ButtonArgsOf(s.events[1])
	assert.Equal(t, input.ButtonRelease, release.State)
	scroll, ok := input.MouseScrollArgsOf(s.events[2])
	require.True(t, ok)
	assert.Equal(t, 3.0, scroll.DY)
}

func TestDispatchSkipsFailedAndJoinsErrors(t *testing.T) {
	c := New(nil, device.TranslatorOptions{Strip: image.Rect(0, 0, 100, 10)})
	broken := newSink("broken")
	broken.initErr = errors.New("no fonts")
	failing := newSink("failing")
	failing.failErr = errors.New("disk full")
	ok := newSink("ok")
	for _, m := range []*sink{broken, failing, ok} {
		require.NoError(t, c.RegisterModule(m, module.Resources{}))
	}
	c.Init(context.Background())

	ev := input.NewInputEvent(input.CloseInput{}, 0)
	err := c.Dispatch(ev, ev)
	assert.ErrorContains(t, err, "failing: disk full")
	assert.Empty(t, broken.events)
	assert.Len(t, failing.events, 2)
	assert.Len(t, ok.events, 2)
	require.NoError(t, c.Stop())
}

func TestRegisterModuleChecksStrip(t *testing.T) {
	c := New(nil, device.TranslatorOptions{Strip: image.Rect(0, 0, 100, 10)})
	s := newSink("s")
	require.NoError(t, c.RegisterModule(s, module.Resources{StripRect: image.Rect(0, 0, 50, 10)}))
	assert.Error(t, c.RegisterModule(s, module.Resources{}), "duplicate")
	assert.Error(t, c.RegisterModule(newSink("wide"), module.Resources{StripRect: image.Rect(0, 0, 200, 10)}))
}

func TestCompositeUsesRegions(t *testing.T) {
	c := New(nil, device.TranslatorOptions{Strip: image.Rect(0, 0, 100, 10)})
	red := color.RGBA{255, 0, 0, 255}
	right := newSink("right")
	right.img = image.NewUniform(red)
	require.NoError(t, c.RegisterModule(right, module.Resources{StripRect: image.Rect(50, 0, 100, 10)}))
	c.Init(context.Background())

	img := c.Composite()
	assert.Equal(t, red, img.RGBAAt(75, 5))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(25, 5))
}

func TestStartPushesStripAndStopsOnListenError(t *testing.T) {
	dev := newFakeDevice()
	c := New(dev, device.TranslatorOptions{})
	c.renderInterval = time.Millisecond
	s := newSink("s")
	s.img = image.NewUniform(color.White)
	require.NoError(t, c.RegisterModule(s, module.Resources{StripRect: image.Rect(0, 0, 800, 100)}))

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		dev.mu.Lock()
		defer dev.mu.Unlock()
		return dev.stripImage != nil
	}, time.Second, time.Millisecond)

	dev.listenRelease <- errors.New("unplugged")
	assert.EqualError(t, <-done, "unplugged")
	require.NoError(t, c.Stop())
}
