package touchlog

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/touchdeck/internal/input"
)

func TestHandleEventLogsTouches(t *testing.T) {
	var buf bytes.Buffer
	m := New(&buf)

	start := input.NewTouchArgs(0, 1, [2]float64{0.5, 0.5}, 1, input.TouchStart)
	require.NoError(t, m.HandleEvent(input.NewTouchEvent(start, 1500*time.Millisecond)))
	assert.Equal(t, 1, m.ActiveContacts())
	assert.Contains(t, buf.String(), "[+1.5s] touch start device=0 id=1")

	require.NoError(t, m.HandleEvent(input.NewTouchEvent(start.WithPhase(input.TouchEnd), 0)))
	assert.Equal(t, 0, m.ActiveContacts())
	assert.Zero(t, m.Violations)
}

func TestHandleEventFlagsViolations(t *testing.T) {
	var buf bytes.Buffer
	m := New(&buf)

	move := input.NewTouchArgs(0, 4, [2]float64{0.1, 0.1}, 1, input.TouchMove)
	require.NoError(t, m.HandleEvent(input.NewTouchEvent(move, 0)))

	assert.Equal(t, 1, m.Violations)
	assert.Contains(t, buf.String(), "lifecycle: contact 0/4: move: contact not active")
}

func TestHandleEventOtherKinds(t *testing.T) {
	var buf bytes.Buffer
	m := New(&buf)

	btn := input.ButtonArgs{State: input.ButtonPress, Button: input.Button{Kind: input.ButtonKey, Code: 3}}
	require.NoError(t, m.HandleEvent(input.NewInputEvent(input.ButtonInput{ButtonArgs: btn}, 0)))
	require.NoError(t, m.HandleEvent(input.NewInputEvent(input.TextInput{Text: "hi"}, 0)))
	require.NoError(t, m.HandleEvent(input.UpdateEvent{UpdateArgs: input.UpdateArgs{DT: 0.5}}))

	out := buf.String()
	assert.Contains(t, out, "button press key 3")
	assert.Contains(t, out, `text "hi"`)
	assert.Contains(t, out, "update {DT:0.5}")
	assert.Equal(t, 0, m.ActiveContacts())
}

func TestHandleEventSkipsCursorMotion(t *testing.T) {
	var buf bytes.Buffer
	m := New(&buf)

	cursor := input.MoveInput{Motion: input.MouseCursorArgs{X: 10, Y: 20}}
	require.NoError(t, m.HandleEvent(input.NewInputEvent(cursor, 0)))
	assert.Empty(t, buf.String())
}
