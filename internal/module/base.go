package module

import (
	"context"
	"image"

	"github.com/phinze/touchdeck/internal/input"
)

// TouchFunc handles one touch sample.
type TouchFunc func(input.TouchArgs) error

// BaseModule provides default implementations of the Module interface.
// Embed it and override only what the module needs.
type BaseModule struct {
	id        string
	onTouch   func(input.TouchArgs) error
	resources Resources
}

// NewBaseModule creates a BaseModule that ignores every event.
func NewBaseModule(id string) BaseModule {
	return BaseModule{id: id}
}

// NewTouchModule creates a BaseModule whose HandleEvent passes touch samples
// to fn and ignores every other event.
func NewTouchModule(id string, fn TouchFunc) BaseModule {
	return BaseModule{id: id, onTouch: fn}
}

func (b *BaseModule) ID() string {
	return b.id
}

// Init stores the resources. Modules overriding Init should call it.
func (b *BaseModule) Init(ctx context.Context, resources Resources) error {
	b.resources = resources
	return nil
}

func (b *BaseModule) Stop() error {
	return nil
}

// HandleEvent routes touch samples to the TouchFunc, if any.
func (b *BaseModule) HandleEvent(ev input.Event) error {
	if b.onTouch == nil {
		return nil
	}
	err, _ := input.OnTouch(ev, b.onTouch)
	return err
}

// RenderStrip returns nil (no strip content).
func (b *BaseModule) RenderStrip() image.Image {
	return nil
}

// Resources returns what Init was given.
func (b *BaseModule) Resources() Resources {
	return b.resources
}
