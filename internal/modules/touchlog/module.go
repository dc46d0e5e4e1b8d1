// Package touchlog provides a module that logs every input event and flags
// touch samples that break their contact's lifecycle.
package touchlog

import (
	"fmt"
	"io"
	"log"

	"github.com/phinze/touchdeck/internal/contact"
	"github.com/phinze/touchdeck/internal/input"
	"github.com/phinze/touchdeck/internal/module"
)

// Module logs events.
type Module struct {
	module.BaseModule

	logger  *log.Logger
	tracker *contact.Tracker

	// Violations counts samples rejected by the lifecycle tracker.
	Violations int
}

// New creates a touch log module writing to w. A nil w uses the standard logger's output.
func New(w io.Writer) *Module {
	logger := log.Default()
	if w != nil {
		logger = log.New(w, "", log.LstdFlags)
	}
	return &Module{
		BaseModule: module.NewBaseModule("touchlog"),
		logger:     logger,
		tracker:    contact.NewTracker(),
	}
}

// HandleEvent logs the event. Lifecycle violations are logged, not returned:
// the sample came from the device and there is nothing to retry.
// Cursor motion is too chatty to log.
func (m *Module) HandleEvent(ev input.Event) error {
	if ev.EventID() == input.MouseCursorEventID {
		return nil
	}
	line, isTouch := input.OnTouch(ev, func(args input.TouchArgs) string {
		if err := m.tracker.Observe(args); err != nil {
			m.Violations++
			return fmt.Sprintf("%s (lifecycle: %v)", args, err)
		}
		return args.String()
	})
	if !isTouch {
		line = describe(ev)
	}
	m.logger.Printf("%s%s", timestamp(ev), line)
	return nil
}

// ActiveContacts returns the number of contacts currently down.
func (m *Module) ActiveContacts() int {
	return m.tracker.Len()
}

func timestamp(ev input.Event) string {
	if in, ok := ev.(input.InputEvent); ok && in.Timestamp > 0 {
		return fmt.Sprintf("[+%s] ", in.Timestamp)
	}
	return ""
}

func describe(ev input.Event) string {
	args, ok := ev.Args()
	if !ok {
		return fmt.Sprintf("%s (empty)", ev.EventID())
	}
	switch a := args.(type) {
	case input.ButtonArgs:
		return fmt.Sprintf("button %s %s %d", a.State, a.Button.Kind, a.Button.Code)
	case input.TextArgs:
		return fmt.Sprintf("text %q", string(a))
	default:
		return fmt.Sprintf("%s %+v", ev.EventID(), a)
	}
}
