// Package module defines the interface for modules that consume input events.
package module

import "image"

// Resources defines what the coordinator allocated to a module.
type Resources struct {
	// StripRect is the region of the touch strip allocated to this module.
	// A zero rect means no strip region is allocated.
	StripRect image.Rectangle
}

// HasStrip returns true if this module has a touch strip region allocated.
func (r Resources) HasStrip() bool {
	return !r.StripRect.Empty()
}
