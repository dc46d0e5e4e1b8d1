// Package coordinator manages module lifecycle and routes input events to modules.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"

	"github.com/phinze/touchdeck/internal/device"
	"github.com/phinze/touchdeck/internal/input"
	"github.com/phinze/touchdeck/internal/module"
)

// DefaultRenderInterval is how often module strip images are pushed to the device.
const DefaultRenderInterval = 100 * time.Millisecond

// Coordinator manages the lifecycle of modules and routes events to them.
type Coordinator struct {
	device     device.Device
	translator *device.Translator
	modules    []module.Module

	// Resource tracking
	moduleResources map[module.Module]module.Resources

	// Track modules that failed to initialize
	failedModules map[module.Module]bool

	// Strip compositing
	stripRect      image.Rectangle
	renderInterval time.Duration

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards module state; dispatchMu keeps each gesture's events together.
	mu         sync.RWMutex
	dispatchMu sync.Mutex
}

// New creates a Coordinator. dev may be nil when events come from another
// source (such as the emulator) through Dispatch; opts.Strip then sets the
// strip geometry. With a device, the device's strip rectangle wins.
func New(dev device.Device, opts device.TranslatorOptions) *Coordinator {
	if dev != nil && dev.GetTouchStripSupported() {
		if rect, err := dev.GetTouchStripImageRectangle(); err == nil {
			opts.Strip = rect
		} else {
			log.Printf("Touch strip geometry unavailable: %v", err)
		}
	}
	return &Coordinator{
		device:          dev,
		translator:      device.NewTranslator(opts),
		moduleResources: make(map[module.Module]module.Resources),
		failedModules:   make(map[module.Module]bool),
		stripRect:       opts.Strip,
		renderInterval:  DefaultRenderInterval,
	}
}

// RegisterModule registers a module with its allocated resources.
// Must be called before Init or Start.
func (c *Coordinator) RegisterModule(m module.Module, res module.Resources) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.moduleResources[m]; ok {
		return fmt.Errorf("module %s already registered", m.ID())
	}
	if res.HasStrip() && !res.StripRect.In(c.stripRect) {
		return fmt.Errorf("module %s strip region %v outside strip %v", m.ID(), res.StripRect, c.stripRect)
	}
	c.moduleResources[m] = res
	c.modules = append(c.modules, m)
	return nil
}

// StripRect returns the full strip rectangle.
func (c *Coordinator) StripRect() image.Rectangle {
	return c.stripRect
}

// Init initializes all modules. Modules that fail are logged and skipped.
func (c *Coordinator) Init(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.modules {
		if err := m.Init(c.ctx, c.moduleResources[m]); err != nil {
			log.Printf("Module %s failed to initialize: %v (skipping)", m.ID(), err)
			c.failedModules[m] = true
		}
	}
}

// Start initializes all modules, hooks the device and runs the device
// listener and render loop until ctx is cancelled or the device fails.
func (c *Coordinator) Start(ctx context.Context) error {
	if c.device == nil {
		return errors.New("coordinator: no device")
	}
	c.Init(ctx)
	c.hookDevice()

	listenErr := make(chan error, 1)
	go func() {
		if err := c.device.Listen(nil); err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	c.wg.Add(1)
	go c.renderLoop()

	select {
	case <-c.ctx.Done():
		return nil
	case err := <-listenErr:
		return err
	}
}

// Stop gracefully shuts down all modules.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	c.mu.RLock()
	defer c.mu.RUnlock()
	var errs []error
	for _, m := range c.modules {
		if err := m.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping %s: %w", m.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Dispatch delivers events, in order, to every initialized module.
// Module errors are logged and returned joined; they do not stop delivery.
func (c *Coordinator) Dispatch(events ...input.Event) error {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	for _, ev := range events {
		for _, m := range c.modules {
			if c.failedModules[m] {
				continue
			}
			if err := m.HandleEvent(ev); err != nil {
				log.Printf("Module %s: %s event: %v", m.ID(), ev.EventID(), err)
				errs = append(errs, fmt.Errorf("%s: %w", m.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// hookDevice registers device handlers that translate raw callbacks and dispatch them.
func (c *Coordinator) hookDevice() {
	logErr := func(what string, err error) {
		if err != nil {
			log.Printf("Registering %s handler: %v", what, err)
		}
	}

	logErr("key", c.device.ForEachKey(func(id device.KeyID) error {
		return c.device.AddKeyHandler(id, func(d device.Device, k device.Key) error {
			if err := c.Dispatch(c.translator.Key(id, input.ButtonPress)); err != nil {
				return err
			}
			k.WaitForRelease()
			return c.Dispatch(c.translator.Key(id, input.ButtonRelease))
		})
	}))

	logErr("dial", c.device.ForEachDial(func(id device.DialID) error {
		if err := c.device.AddDialRotateHandler(id, func(d device.Device, di device.Dial, delta int8) error {
			return c.Dispatch(c.translator.DialRotate(delta))
		}); err != nil {
			return err
		}
		return c.device.AddDialSwitchHandler(id, func(d device.Device, di device.Dial) error {
			if err := c.Dispatch(c.translator.DialSwitch(id, input.ButtonPress)); err != nil {
				return err
			}
			di.WaitForRelease()
			return c.Dispatch(c.translator.DialSwitch(id, input.ButtonRelease))
		})
	}))

	if !c.device.GetTouchStripSupported() {
		return
	}
	logErr("strip touch", c.device.AddTouchStripTouchHandler(func(d device.Device, kind device.TouchStripTouchType, p image.Point) error {
		events, err := c.translator.Tap(kind, p)
		if err != nil {
			log.Printf("Dropping strip tap at %v: %v", p, err)
			return nil
		}
		return c.Dispatch(events...)
	}))
	logErr("strip swipe", c.device.AddTouchStripSwipeHandler(func(d device.Device, origin, dest image.Point) error {
		events, err := c.translator.Swipe(origin, dest)
		if err != nil {
			log.Printf("Dropping strip swipe %v -> %v: %v", origin, dest, err)
			return nil
		}
		return c.Dispatch(events...)
	}))
}

// renderLoop runs the periodic render cycle.
func (c *Coordinator) renderLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.renderInterval)
	defer ticker.Stop()

	c.renderStrip()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.renderStrip()
		}
	}
}

// renderStrip pushes the composite strip image to the device.
func (c *Coordinator) renderStrip() {
	if c.stripRect.Empty() || !c.device.GetTouchStripSupported() {
		return
	}
	if err := c.device.SetTouchStripImage(c.Composite()); err != nil {
		log.Printf("Setting strip image: %v", err)
	}
}

// Composite draws every module's strip image at its allocated region.
func (c *Coordinator) Composite() *image.RGBA {
	composite := image.NewRGBA(c.stripRect)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.modules {
		if c.failedModules[m] {
			continue
		}
		res := c.moduleResources[m]
		if !res.HasStrip() {
			continue
		}
		img := m.RenderStrip()
		if img == nil {
			continue
		}
		draw.Draw(composite, res.StripRect, img, img.Bounds().Min, draw.Over)
	}
	return composite
}
