package record

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/touchdeck/internal/input"
	"github.com/phinze/touchdeck/internal/recorder"
)

func TestRecordsOnlyTouches(t *testing.T) {
	var buf bytes.Buffer
	w := recorder.NewWriter(&buf)
	m := New(w)

	args := input.NewTouchArgs(2, 0, [2]float64{0.25, 0.75}, 1, input.TouchStart)
	require.NoError(t, m.HandleEvent(input.NewTouchEvent(args, 0)))
	require.NoError(t, m.HandleEvent(input.NewInputEvent(input.CloseInput{}, 0)))
	require.NoError(t, w.Close())
	assert.Equal(t, uint64(1), m.Count())

	records, err := recorder.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, args, records[0].Touch)
}

func TestRecordPropagatesWriteErrors(t *testing.T) {
	m := New(recorder.NewWriter(&bytes.Buffer{}))
	err := m.HandleEvent(input.NewTouchEvent(input.TouchArgs{}, 0))
	assert.Error(t, err)
}
