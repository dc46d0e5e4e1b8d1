package input

import "time"

// Event is the top-level event type: InputEvent, UpdateEvent or IdleEvent.
type Event interface {
	EventID() EventID
	Args() (Args, bool)
	FromArgs(id EventID, args Args) (Event, bool)
	isEvent()
}

// InputEvent wraps user input. Timestamp is the time since the source
// started; zero when the source does not report one.
type InputEvent struct {
	Input     Input
	Timestamp time.Duration
}

// UpdateEvent asks the application to advance its state.
type UpdateEvent struct {
	UpdateArgs
}

// IdleEvent reports spare time before the next update.
type IdleEvent struct {
	IdleArgs
}

func (InputEvent) isEvent()  {}
func (UpdateEvent) isEvent() {}
func (IdleEvent) isEvent()   {}

// EventID returns the tag of the wrapped input.
func (e InputEvent) EventID() EventID {
	if e.Input == nil {
		return ""
	}
	return e.Input.EventID()
}

func (UpdateEvent) EventID() EventID { return UpdateEventID }
func (IdleEvent) EventID() EventID   { return IdleEventID }

// Args returns the payload of the wrapped input.
func (e InputEvent) Args() (Args, bool) {
	if e.Input == nil {
		return nil, false
	}
	return e.Input.Args()
}

func (e UpdateEvent) Args() (Args, bool) { return e.UpdateArgs, true }
func (e IdleEvent) Args() (Args, bool)   { return e.IdleArgs, true }

// FromArgs builds an event for args, keeping the receiver's timestamp when
// the result is also an InputEvent.
func (e InputEvent) FromArgs(id EventID, args Args) (Event, bool) {
	return newEvent(id, args, e.Timestamp)
}

func (UpdateEvent) FromArgs(id EventID, args Args) (Event, bool) { return newEvent(id, args, 0) }
func (IdleEvent) FromArgs(id EventID, args Args) (Event, bool)   { return newEvent(id, args, 0) }

func newEvent(id EventID, args Args, ts time.Duration) (Event, bool) {
	switch id {
	case UpdateEventID:
		return UpdateEvent{mustArgs[UpdateArgs](id, args)}, true
	case IdleEventID:
		return IdleEvent{mustArgs[IdleArgs](id, args)}, true
	}
	in, ok := newInput(id, args)
	if !ok {
		return nil, false
	}
	return InputEvent{Input: in, Timestamp: ts}, true
}

// NewInputEvent wraps in with a timestamp.
func NewInputEvent(in Input, ts time.Duration) InputEvent {
	return InputEvent{Input: in, Timestamp: ts}
}

// NewTouchEvent wraps a touch sample as an Event.
func NewTouchEvent(args TouchArgs, ts time.Duration) Event {
	return InputEvent{Input: MoveInput{Motion: args}, Timestamp: ts}
}
