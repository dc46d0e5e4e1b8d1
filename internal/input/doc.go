// Package input models heterogeneous input events in uniform containers.
//
// Every payload kind (button, mouse motion, touch, text, ...) is identified by
// an EventID. Containers such as Input and Event implement GenericEvent, which
// exposes the tag, the payload and a way to build a new container of the same
// concrete type around a fresh payload. Typed helpers like OnTouch and
// FromTouchArgs bridge that generic mechanism to strongly typed payloads, so
// callers interested in a single kind never type-assert by hand.
package input
