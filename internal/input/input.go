package input

import "fmt"

// Input is a user input event. The variants are ButtonInput, MoveInput,
// TextInput, ResizeInput, FocusInput and CloseInput.
type Input interface {
	EventID() EventID
	Args() (Args, bool)
	FromArgs(id EventID, args Args) (Input, bool)
	isInput()
}

// Motion is the payload of a MoveInput: MouseCursorArgs, MouseScrollArgs or
// TouchArgs.
type Motion interface {
	Args
	isMotion()
}

func (MouseCursorArgs) isMotion() {}
func (MouseScrollArgs) isMotion() {}
func (TouchArgs) isMotion()       {}

// ButtonInput is a button press or release.
type ButtonInput struct {
	ButtonArgs
}

// MoveInput is cursor, scroll or touch motion.
type MoveInput struct {
	Motion Motion
}

// TextInput is entered text.
type TextInput struct {
	Text TextArgs
}

// ResizeInput is a window or surface resize.
type ResizeInput struct {
	ResizeArgs
}

// FocusInput is a focus change.
type FocusInput struct {
	Focused FocusArgs
}

// CloseInput is a request to close the surface.
type CloseInput struct{}

func (ButtonInput) isInput() {}
func (MoveInput) isInput()   {}
func (TextInput) isInput()   {}
func (ResizeInput) isInput() {}
func (FocusInput) isInput()  {}
func (CloseInput) isInput()  {}

func (ButtonInput) EventID() EventID { return ButtonEventID }
func (ResizeInput) EventID() EventID { return ResizeEventID }
func (TextInput) EventID() EventID   { return TextEventID }
func (FocusInput) EventID() EventID  { return FocusEventID }
func (CloseInput) EventID() EventID  { return CloseEventID }

// EventID returns the tag of the motion payload.
func (m MoveInput) EventID() EventID {
	if m.Motion == nil {
		return ""
	}
	return m.Motion.EventID()
}

func (b ButtonInput) Args() (Args, bool) { return b.ButtonArgs, true }
func (r ResizeInput) Args() (Args, bool) { return r.ResizeArgs, true }
func (t TextInput) Args() (Args, bool)   { return t.Text, true }
func (f FocusInput) Args() (Args, bool)  { return f.Focused, true }
func (CloseInput) Args() (Args, bool)    { return CloseArgs{}, true }

// Args returns the motion payload; false for a MoveInput without one.
func (m MoveInput) Args() (Args, bool) {
	if m.Motion == nil {
		return nil, false
	}
	return m.Motion, true
}

// Input carries no ambient structure, so every variant builds the same way.
func (ButtonInput) FromArgs(id EventID, args Args) (Input, bool) { return newInput(id, args) }
func (MoveInput) FromArgs(id EventID, args Args) (Input, bool)   { return newInput(id, args) }
func (TextInput) FromArgs(id EventID, args Args) (Input, bool)   { return newInput(id, args) }
func (ResizeInput) FromArgs(id EventID, args Args) (Input, bool) { return newInput(id, args) }
func (FocusInput) FromArgs(id EventID, args Args) (Input, bool)  { return newInput(id, args) }
func (CloseInput) FromArgs(id EventID, args Args) (Input, bool)  { return newInput(id, args) }

// newInput wraps args in the Input variant for id.
// It returns false for tags that are not input, such as UpdateEventID.
func newInput(id EventID, args Args) (Input, bool) {
	switch id {
	case ButtonEventID:
		return ButtonInput{mustArgs[ButtonArgs](id, args)}, true
	case MouseCursorEventID:
		return MoveInput{mustArgs[MouseCursorArgs](id, args)}, true
	case MouseScrollEventID:
		return MoveInput{mustArgs[MouseScrollArgs](id, args)}, true
	case TouchEventID:
		return MoveInput{mustArgs[TouchArgs](id, args)}, true
	case TextEventID:
		return TextInput{mustArgs[TextArgs](id, args)}, true
	case ResizeEventID:
		return ResizeInput{mustArgs[ResizeArgs](id, args)}, true
	case FocusEventID:
		return FocusInput{mustArgs[FocusArgs](id, args)}, true
	case CloseEventID:
		mustArgs[CloseArgs](id, args)
		return CloseInput{}, true
	}
	return nil, false
}

func (b ButtonInput) String() string {
	return fmt.Sprintf("%s %s %d", b.State, b.Button.Kind, b.Button.Code)
}

func (m MoveInput) String() string {
	return fmt.Sprint(m.Motion)
}
