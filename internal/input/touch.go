package input

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Touch is the lifecycle phase of one touch contact.
// A contact goes Start, zero or more Move, then End or Cancel.
type Touch uint8

const (
	// TouchStart is the start of a touch, e.g. a finger pressed on a screen.
	TouchStart Touch = iota + 1
	// TouchMove is a finger moving while touching.
	TouchMove
	// TouchEnd is the finger leaving the surface.
	TouchEnd
	// TouchCancel aborts the touch, e.g. when the window loses focus.
	TouchCancel
)

var touchNames = map[Touch]string{
	TouchStart:  "start",
	TouchMove:   "move",
	TouchEnd:    "end",
	TouchCancel: "cancel",
}

// Valid reports whether t is one of the four phases.
func (t Touch) Valid() bool {
	_, ok := touchNames[t]
	return ok
}

func (t Touch) String() string {
	if name, ok := touchNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Touch(%d)", uint8(t))
}

// ParseTouch returns the phase with the given name.
func ParseTouch(name string) (Touch, error) {
	for t, n := range touchNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
}

// MarshalText encodes the phase as its name.
func (t Touch) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhase, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a phase name.
func (t *Touch) UnmarshalText(text []byte) error {
	v, err := ParseTouch(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalYAML encodes the phase as its name.
func (t Touch) MarshalYAML() (interface{}, error) {
	b, err := t.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// UnmarshalYAML decodes a phase name.
func (t *Touch) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: touch phase must be a scalar", value.Line)
	}
	return t.UnmarshalText([]byte(value.Value))
}

// Validation errors reported by TouchArgs.Validate.
var (
	ErrUnknownPhase  = errors.New("unknown touch phase")
	ErrPositionRange = errors.New("touch position outside 0..1")
	ErrPressureRange = errors.New("touch pressure magnitude above 1")
	ErrFlatDepth     = errors.New("2D touch carries depth or lateral pressure")
)

// pressureTolerance absorbs rounding in callers that normalize vectors.
const pressureTolerance = 1e-9

// TouchArgs is a single touch sample.
//
// Coordinates are normalized to 0..1 so touch screens and trackpads look the
// same. For 2D touch the pressure points in the z direction; use Pressure for
// the magnitude. ID identifies one continuous contact on Device and may be
// reused by a later contact that does not overlap in time.
type TouchArgs struct {
	// Device identifies the touch device.
	Device int64 `yaml:"device" json:"device"`
	// ID identifies the contact among those active on Device.
	ID int64 `yaml:"id" json:"id"`
	// X, Y and Z are the normalized position. Z is 0 unless Is3D.
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
	// PX, PY and PZ are the pressure direction vector.
	PX float64 `yaml:"px" json:"px"`
	PY float64 `yaml:"py" json:"py"`
	PZ float64 `yaml:"pz" json:"pz"`
	// Is3D reports whether Z and the full pressure vector are meaningful.
	Is3D bool `yaml:"is_3d" json:"is_3d"`
	// Touch is the phase of this sample.
	Touch Touch `yaml:"touch" json:"touch"`
}

// NewTouchArgs creates a 2D touch sample. The pressure is stored as the z
// component of the pressure vector.
func NewTouchArgs(device, id int64, pos [2]float64, pressure float64, touch Touch) TouchArgs {
	return TouchArgs{
		Device: device,
		ID:     id,
		X:      pos[0],
		Y:      pos[1],
		PZ:     pressure,
		Touch:  touch,
	}
}

// NewTouchArgs3D creates a 3D touch sample.
// The pressure direction vector should have a magnitude of at most 1.
func NewTouchArgs3D(device, id int64, pos [3]float64, pressure [3]float64, touch Touch) TouchArgs {
	return TouchArgs{
		Device: device,
		ID:     id,
		X:      pos[0],
		Y:      pos[1],
		Z:      pos[2],
		PX:     pressure[0],
		PY:     pressure[1],
		PZ:     pressure[2],
		Is3D:   true,
		Touch:  touch,
	}
}

// Position returns the 2D position.
func (a TouchArgs) Position() [2]float64 {
	return [2]float64{a.X, a.Y}
}

// Position3D returns the 3D position.
func (a TouchArgs) Position3D() [3]float64 {
	return [3]float64{a.X, a.Y, a.Z}
}

// Pressure returns the pressure magnitude, normalized 0..1.
func (a TouchArgs) Pressure() float64 {
	return math.Sqrt(a.PX*a.PX + a.PY*a.PY + a.PZ*a.PZ)
}

// Pressure3D returns the pressure vector.
func (a TouchArgs) Pressure3D() [3]float64 {
	return [3]float64{a.PX, a.PY, a.PZ}
}

// WithPhase returns a copy of a in the given phase.
func (a TouchArgs) WithPhase(touch Touch) TouchArgs {
	a.Touch = touch
	return a
}

// Validate checks the caller contract that the constructors leave unchecked.
func (a TouchArgs) Validate() error {
	if !a.Touch.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownPhase, uint8(a.Touch))
	}
	for _, v := range a.Position3D() {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %v", ErrPositionRange, a.Position3D())
		}
	}
	if !a.Is3D && (a.Z != 0 || a.PX != 0 || a.PY != 0) {
		return ErrFlatDepth
	}
	if p := a.Pressure(); math.IsNaN(p) || p > 1+pressureTolerance {
		return fmt.Errorf("%w: %g", ErrPressureRange, p)
	}
	return nil
}

func (a TouchArgs) String() string {
	if a.Is3D {
		return fmt.Sprintf("touch %s device=%d id=%d pos=%v pressure=%v",
			a.Touch, a.Device, a.ID, a.Position3D(), a.Pressure3D())
	}
	return fmt.Sprintf("touch %s device=%d id=%d pos=%v pressure=%g",
		a.Touch, a.Device, a.ID, a.Position(), a.Pressure())
}
