// Package trail provides a module that shows recent touch samples on the strip.
package trail

import (
	"context"
	"image"
	"sync"

	"github.com/phinze/touchdeck/internal/input"
	"github.com/phinze/touchdeck/internal/module"
	"github.com/phinze/touchdeck/internal/render"
)

// Module keeps the last samples and renders them into its strip region.
type Module struct {
	module.BaseModule

	mu      sync.Mutex
	length  int
	samples []input.TouchArgs
	strip   *render.Strip
	dirty   bool
	cached  image.Image
}

// New creates a trail module remembering up to length samples.
func New(length int) *Module {
	if length < 1 {
		length = 1
	}
	return &Module{
		BaseModule: module.NewBaseModule("trail"),
		length:     length,
	}
}

// Init sizes the renderer to the allocated strip region.
func (m *Module) Init(ctx context.Context, resources module.Resources) error {
	if err := m.BaseModule.Init(ctx, resources); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if resources.HasStrip() {
		m.strip = render.NewStrip(resources.StripRect.Size())
		m.dirty = true
	}
	return nil
}

// HandleEvent remembers touch samples and ignores everything else.
func (m *Module) HandleEvent(ev input.Event) error {
	args, ok := input.TouchArgsOf(ev)
	if !ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, args)
	if over := len(m.samples) - m.length; over > 0 {
		m.samples = append(m.samples[:0], m.samples[over:]...)
	}
	m.dirty = true
	return nil
}

// Samples returns a copy of the remembered samples, oldest first.
func (m *Module) Samples() []input.TouchArgs {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]input.TouchArgs(nil), m.samples...)
}

// RenderStrip renders the trail, re-rendering only after new samples arrive.
func (m *Module) RenderStrip() image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.strip == nil {
		return nil
	}
	if m.dirty {
		m.cached = m.strip.Render(m.samples)
		m.dirty = false
	}
	return m.cached
}
