package input

import "fmt"

// Args is the payload carried by an event container.
// The set of implementations is closed: only types in this package satisfy it.
type Args interface {
	// EventID returns the tag this payload is stored under.
	EventID() EventID
	isArgs()
}

// ButtonKind says which physical control a button belongs to.
type ButtonKind uint8

const (
	// ButtonKeyboard is a keyboard key; Code is the platform key code.
	ButtonKeyboard ButtonKind = iota + 1
	// ButtonMouse is a mouse button; Code is the button index.
	ButtonMouse
	// ButtonKey is a Stream Deck key; Code is the 1-based key number.
	ButtonKey
	// ButtonDial is a Stream Deck dial press; Code is the 1-based dial number.
	ButtonDial
)

func (k ButtonKind) String() string {
	switch k {
	case ButtonKeyboard:
		return "keyboard"
	case ButtonMouse:
		return "mouse"
	case ButtonKey:
		return "key"
	case ButtonDial:
		return "dial"
	}
	return fmt.Sprintf("ButtonKind(%d)", uint8(k))
}

// ButtonState is whether a button went down or up.
type ButtonState uint8

const (
	// ButtonPress means the button was pressed down.
	ButtonPress ButtonState = iota + 1
	// ButtonRelease means the button was released.
	ButtonRelease
)

func (s ButtonState) String() string {
	switch s {
	case ButtonPress:
		return "press"
	case ButtonRelease:
		return "release"
	}
	return fmt.Sprintf("ButtonState(%d)", uint8(s))
}

// Button identifies a single physical control.
type Button struct {
	Kind ButtonKind `yaml:"kind" json:"kind"`
	Code int        `yaml:"code" json:"code"`
}

// ButtonArgs is a press or release of a button.
type ButtonArgs struct {
	State  ButtonState `yaml:"state" json:"state"`
	Button Button      `yaml:"button" json:"button"`
}

// MouseCursorArgs is an absolute cursor position in window coordinates.
type MouseCursorArgs struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// MouseScrollArgs is a relative scroll amount.
// Stream Deck dial rotation is reported as vertical scroll.
type MouseScrollArgs struct {
	DX float64 `yaml:"dx" json:"dx"`
	DY float64 `yaml:"dy" json:"dy"`
}

// TextArgs is text entered by the user.
type TextArgs string

// ResizeArgs is the new size of the window or surface.
type ResizeArgs struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// FocusArgs reports whether the surface gained (true) or lost focus.
type FocusArgs bool

// CloseArgs reports that the surface is closing.
type CloseArgs struct{}

// UpdateArgs asks the application to advance its state by DT seconds.
type UpdateArgs struct {
	DT float64 `yaml:"dt" json:"dt"`
}

// IdleArgs reports spare time of DT seconds before the next update.
type IdleArgs struct {
	DT float64 `yaml:"dt" json:"dt"`
}

func (ButtonArgs) EventID() EventID      { return ButtonEventID }
func (MouseCursorArgs) EventID() EventID { return MouseCursorEventID }
func (MouseScrollArgs) EventID() EventID { return MouseScrollEventID }
func (TouchArgs) EventID() EventID       { return TouchEventID }
func (TextArgs) EventID() EventID        { return TextEventID }
func (ResizeArgs) EventID() EventID      { return ResizeEventID }
func (FocusArgs) EventID() EventID       { return FocusEventID }
func (CloseArgs) EventID() EventID       { return CloseEventID }
func (UpdateArgs) EventID() EventID      { return UpdateEventID }
func (IdleArgs) EventID() EventID        { return IdleEventID }

func (ButtonArgs) isArgs()      {}
func (MouseCursorArgs) isArgs() {}
func (MouseScrollArgs) isArgs() {}
func (TouchArgs) isArgs()       {}
func (TextArgs) isArgs()        {}
func (ResizeArgs) isArgs()      {}
func (FocusArgs) isArgs()       {}
func (CloseArgs) isArgs()       {}
func (UpdateArgs) isArgs()      {}
func (IdleArgs) isArgs()        {}
