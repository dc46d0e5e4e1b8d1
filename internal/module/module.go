package module

import (
	"context"
	"image"

	"github.com/phinze/touchdeck/internal/input"
)

// Module defines the interface that all event-consuming modules implement.
type Module interface {
	// ID returns a unique identifier for this module instance.
	ID() string

	// Init initializes the module with the given context and allocated resources.
	// The context should be used for cancellation and lifecycle management.
	Init(ctx context.Context, resources Resources) error

	// Stop gracefully shuts down the module, releasing any resources.
	Stop() error

	// HandleEvent processes one input event. Events arrive in the order the
	// device produced them; a gesture's samples are delivered back to back.
	HandleEvent(ev input.Event) error

	// RenderStrip returns an image for this module's touch strip region.
	// Returns nil if the module has no strip content to render.
	RenderStrip() image.Image
}
