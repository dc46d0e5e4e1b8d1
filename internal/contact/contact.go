// Package contact tracks the lifecycle of touch contacts.
//
// A contact is identified by its device and contact id. It must go Start,
// any number of Move, then End or Cancel. Contact ids are only unique among
// active contacts, so an id is free for reuse once its contact ends.
//
// Nothing in this package is safe for concurrent use.
package contact

import (
	"errors"
	"fmt"
	"sort"

	"github.com/phinze/touchdeck/internal/input"
)

// Lifecycle errors returned by Tracker.Observe.
var (
	ErrAlreadyActive = errors.New("contact already active")
	ErrNotActive     = errors.New("contact not active")
	// ErrUnknownPhase is input.ErrUnknownPhase, so either matches with errors.Is.
	ErrUnknownPhase = input.ErrUnknownPhase
)

// Key identifies a contact.
type Key struct {
	Device int64
	ID     int64
}

// KeyOf returns the contact key of a touch sample.
func KeyOf(args input.TouchArgs) Key {
	return Key{Device: args.Device, ID: args.ID}
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.Device, k.ID)
}

// LifecycleError describes a sample that does not fit its contact's lifecycle.
type LifecycleError struct {
	Key   Key
	Phase input.Touch
	Err   error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("contact %s: %s: %v", e.Key, e.Phase, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// Tracker keeps the last sample of every active contact.
type Tracker struct {
	active map[Key]input.TouchArgs
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{active: make(map[Key]input.TouchArgs)}
}

// Observe records a sample. Samples that break the lifecycle are rejected
// and leave the tracker unchanged.
func (t *Tracker) Observe(args input.TouchArgs) error {
	key := KeyOf(args)
	_, active := t.active[key]

	switch args.Touch {
	case input.TouchStart:
		if active {
			return &LifecycleError{Key: key, Phase: args.Touch, Err: ErrAlreadyActive}
		}
		t.active[key] = args
	case input.TouchMove:
		if !active {
			return &LifecycleError{Key: key, Phase: args.Touch, Err: ErrNotActive}
		}
		t.active[key] = args
	case input.TouchEnd, input.TouchCancel:
		if !active {
			return &LifecycleError{Key: key, Phase: args.Touch, Err: ErrNotActive}
		}
		delete(t.active, key)
	default:
		return &LifecycleError{Key: key, Phase: args.Touch, Err: ErrUnknownPhase}
	}
	return nil
}

// Last returns the most recent sample of an active contact.
func (t *Tracker) Last(key Key) (input.TouchArgs, bool) {
	args, ok := t.active[key]
	return args, ok
}

// Active returns the last sample of every active contact, ordered by device
// then contact id.
func (t *Tracker) Active() []input.TouchArgs {
	out := make([]input.TouchArgs, 0, len(t.active))
	for _, args := range t.active {
		out = append(out, args)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Device != out[j].Device {
			return out[i].Device < out[j].Device
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of active contacts.
func (t *Tracker) Len() int {
	return len(t.active)
}

// CancelAll ends every active contact and returns the Cancel samples that
// callers should emit, in Active order.
func (t *Tracker) CancelAll() []input.TouchArgs {
	active := t.Active()
	for i := range active {
		active[i] = active[i].WithPhase(input.TouchCancel)
	}
	clear(t.active)
	return active
}

// Allocator hands out contact ids for one device, reusing released ids.
type Allocator struct {
	inUse map[int64]bool
}

// NewAllocator creates an allocator with no ids in use.
func NewAllocator() *Allocator {
	return &Allocator{inUse: make(map[int64]bool)}
}

// Acquire returns the lowest id not currently in use.
func (a *Allocator) Acquire() int64 {
	var id int64
	for a.inUse[id] {
		id++
	}
	a.inUse[id] = true
	return id
}

// Release makes id available again. Releasing a free id is a no-op.
func (a *Allocator) Release(id int64) {
	delete(a.inUse, id)
}

// InUse returns the number of ids currently handed out.
func (a *Allocator) InUse() int {
	return len(a.inUse)
}
