// Package device defines the abstraction layer for Stream Deck hardware and
// translates its raw callbacks into input events.
package device

import (
	"image"
	"time"
)

// Device is the interface that abstracts Stream Deck hardware.
type Device interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Device info
	GetModelName() string
	GetKeyCount() byte
	GetDialCount() byte
	GetTouchStripSupported() bool
	GetTouchStripImageRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetTouchStripImage(img image.Image) error
	ClearKey(key KeyID) error

	// Iteration
	ForEachKey(cb func(KeyID) error) error
	ForEachDial(cb func(DialID) error) error

	// Event handlers
	AddKeyHandler(key KeyID, fn KeyHandler) error
	AddDialRotateHandler(dial DialID, fn DialRotateHandler) error
	AddDialSwitchHandler(dial DialID, fn DialSwitchHandler) error
	AddTouchStripTouchHandler(fn TouchStripTouchHandler) error
	AddTouchStripSwipeHandler(fn TouchStripSwipeHandler) error

	// Event loop
	Listen(errCh chan error) error
}

// KeyID identifies a physical key on the Stream Deck.
type KeyID byte

// DialID identifies a rotary dial on the Stream Deck Plus.
type DialID byte

// TouchStripTouchType represents the type of touch on the strip.
type TouchStripTouchType byte

// Touch strip touch types
const (
	TOUCH_STRIP_TOUCH_TYPE_SHORT TouchStripTouchType = iota + 1
	TOUCH_STRIP_TOUCH_TYPE_LONG
)

// Key represents a physical key and provides methods for handlers.
type Key interface {
	GetID() KeyID
	WaitForRelease() time.Duration
}

// Dial represents a rotary dial and provides methods for handlers.
type Dial interface {
	GetID() DialID
	WaitForRelease() time.Duration
}

// Handler types
type (
	// KeyHandler is called when a key is pressed.
	KeyHandler func(d Device, k Key) error

	// DialSwitchHandler is called when a dial is pressed.
	DialSwitchHandler func(d Device, di Dial) error

	// DialRotateHandler is called when a dial is rotated.
	DialRotateHandler func(d Device, di Dial, delta int8) error

	// TouchStripTouchHandler is called when the touch strip is touched.
	TouchStripTouchHandler func(d Device, t TouchStripTouchType, p image.Point) error

	// TouchStripSwipeHandler is called when the touch strip is swiped.
	TouchStripSwipeHandler func(d Device, origin, destination image.Point) error
)
