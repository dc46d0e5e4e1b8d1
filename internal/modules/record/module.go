// Package record provides a module that appends touch samples to a recording.
package record

import (
	"github.com/phinze/touchdeck/internal/module"
	"github.com/phinze/touchdeck/internal/recorder"
)

// Module writes every touch sample to a recorder.Writer.
type Module struct {
	module.BaseModule
	w *recorder.Writer
}

// New creates a record module. The caller owns w and closes it after Stop.
func New(w *recorder.Writer) *Module {
	return &Module{
		BaseModule: module.NewTouchModule("record", w.Write),
		w:          w,
	}
}

// Count returns the number of samples recorded so far.
func (m *Module) Count() uint64 {
	return m.w.Count()
}
