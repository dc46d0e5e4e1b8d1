package input

// FromTouchArgs builds a touch event of the same concrete type as old.
// It returns false when that type cannot represent touch. old is not modified.
// old must be non-nil: it supplies the concrete type and any ambient data.
func FromTouchArgs[E GenericEvent[E]](args TouchArgs, old E) (E, bool) {
	return old.FromArgs(TouchEventID, args)
}

// OnTouch calls fn with the touch payload if e is a touch event and returns
// its result. For any other event it returns false without calling fn.
//
// If e is tagged as touch but does not store TouchArgs, OnTouch panics with a
// *PayloadMismatchError: the container is broken and its data can't be trusted.
func OnTouch[E GenericEvent[E], U any](e E, fn func(TouchArgs) U) (U, bool) {
	return visit(e, TouchEventID, fn)
}

// TouchArgsOf returns the touch payload of e, if it carries one.
func TouchArgsOf[E GenericEvent[E]](e E) (TouchArgs, bool) {
	return OnTouch(e, identity[TouchArgs])
}
