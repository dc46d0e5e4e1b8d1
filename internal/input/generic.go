package input

import "fmt"

// GenericEvent is implemented by event containers that hold one payload
// identified by an EventID. E is the concrete container type itself.
type GenericEvent[E any] interface {
	// EventID returns the tag of the payload currently held.
	EventID() EventID

	// Args returns the payload currently held.
	// It returns false only if the container holds no payload at all.
	Args() (Args, bool)

	// FromArgs builds a new container of the receiver's concrete type that
	// carries args under id, deriving any non-payload structure from the
	// receiver. The receiver is not modified. It returns false when the
	// container type cannot represent id.
	FromArgs(id EventID, args Args) (E, bool)
}

// PayloadMismatchError reports a container whose tag disagrees with the
// payload it stores. It always indicates a bug in the container type and is
// raised with panic rather than returned.
type PayloadMismatchError struct {
	ID   EventID
	Args Args
}

func (e *PayloadMismatchError) Error() string {
	if e.Args == nil {
		return fmt.Sprintf("input: event tagged %q holds no payload", e.ID)
	}
	return fmt.Sprintf("input: event tagged %q holds %T payload", e.ID, e.Args)
}

// visit calls fn with the typed payload of e if e is tagged id.
// A tag match with a payload of another type panics.
func visit[A Args, E GenericEvent[E], U any](e E, id EventID, fn func(A) U) (U, bool) {
	var zero U
	if e.EventID() != id {
		return zero, false
	}
	args, ok := e.Args()
	if !ok {
		panic(&PayloadMismatchError{ID: id})
	}
	typed, ok := args.(A)
	if !ok {
		panic(&PayloadMismatchError{ID: id, Args: args})
	}
	return fn(typed), true
}

// mustArgs asserts the payload type a container is asked to store.
func mustArgs[A Args](id EventID, args Args) A {
	typed, ok := args.(A)
	if !ok {
		panic(&PayloadMismatchError{ID: id, Args: args})
	}
	return typed
}

func identity[A any](a A) A { return a }

// ButtonArgsOf returns the button payload of e, if it carries one.
func ButtonArgsOf[E GenericEvent[E]](e E) (ButtonArgs, bool) {
	return visit(e, ButtonEventID, identity[ButtonArgs])
}

// MouseCursorArgsOf returns the cursor payload of e, if it carries one.
func MouseCursorArgsOf[E GenericEvent[E]](e E) (MouseCursorArgs, bool) {
	return visit(e, MouseCursorEventID, identity[MouseCursorArgs])
}

// MouseScrollArgsOf returns the scroll payload of e, if it carries one.
func MouseScrollArgsOf[E GenericEvent[E]](e E) (MouseScrollArgs, bool) {
	return visit(e, MouseScrollEventID, identity[MouseScrollArgs])
}
