package input

// EventID identifies which payload kind an event container holds.
type EventID string

// Event IDs for every payload kind known to this package.
// Values are stable and distinct; they double as the wire names in recordings.
const (
	ButtonEventID      EventID = "button"
	MouseCursorEventID EventID = "mouse_cursor"
	MouseScrollEventID EventID = "mouse_scroll"
	TouchEventID       EventID = "touch"
	TextEventID        EventID = "text"
	ResizeEventID      EventID = "resize"
	FocusEventID       EventID = "focus"
	CloseEventID       EventID = "close"
	UpdateEventID      EventID = "update"
	IdleEventID        EventID = "idle"
)

// String returns the tag name.
func (id EventID) String() string {
	return string(id)
}
