package recorder

import (
	"bytes"
	"image"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/touchdeck/internal/contact"
	"github.com/phinze/touchdeck/internal/device"
	"github.com/phinze/touchdeck/internal/input"
)

func TestRoundTrip(t *testing.T) {
	samples := []input.TouchArgs{
		input.NewTouchArgs(0, 0, [2]float64{0.1, 0.2}, 1, input.TouchStart),
		input.NewTouchArgs(0, 0, [2]float64{0.3, 0.2}, 0.5, input.TouchMove),
		input.NewTouchArgs3D(1, 4, [3]float64{0.3, 0.2, 0.9}, [3]float64{0, 0.6, 0.8}, input.TouchCancel),
		input.NewTouchArgs(0, 0, [2]float64{0.3, 0.2}, 0, input.TouchEnd),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, s := range samples {
		require.NoError(t, w.Write(s))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, uint64(4), w.Count())
	assert.Equal(t, 4, strings.Count(buf.String(), "seq:"))

	records, err := NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(samples))
	for i, rec := range records {
		assert.Equal(t, uint64(i+1), rec.Seq)
		assert.Equal(t, samples[i], rec.Touch)
	}
}

func TestReaderEmpty(t *testing.T) {
	_, err := NewReader(strings.NewReader("")).Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderBadPhase(t *testing.T) {
	doc := "seq: 1\ntouch:\n  device: 0\n  id: 0\n  touch: hover\n"
	_, err := NewReader(strings.NewReader(doc)).Next()
	assert.ErrorIs(t, err, input.ErrUnknownPhase)
}

func TestWriteRejectsInvalidPhase(t *testing.T) {
	w := NewWriter(io.Discard)
	assert.Error(t, w.Write(input.TouchArgs{}))
}

func recording(t *testing.T, samples ...input.TouchArgs) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, s := range samples {
		require.NoError(t, w.Write(s))
	}
	require.NoError(t, w.Close())
	return &buf
}

func TestReplay(t *testing.T) {
	start := input.NewTouchArgs(0, 1, [2]float64{0.1, 0.2}, 1, input.TouchStart)
	buf := recording(t,
		start,
		start.WithPhase(input.TouchEnd),
		input.NewTouchArgs(0, 2, [2]float64{0.5, 0.5}, 1, input.TouchMove),
		input.NewTouchArgs(0, 3, [2]float64{2, 0}, 1, input.TouchStart),
		input.NewTouchArgs(1, 1, [2]float64{0, 0}, 0.5, input.TouchStart),
	)

	var out bytes.Buffer
	stats, err := Replay(NewReader(buf), &out, false)
	require.NoError(t, err)
	assert.Equal(t, Stats{Samples: 5, Contacts: 3, Problems: 2, Active: 2}, stats)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "touch start device=0 id=1")
	assert.NotContains(t, lines[1], "!!")
	assert.Contains(t, lines[2], "!!")
	assert.Contains(t, lines[3], "!!")
	assert.NotContains(t, lines[4], "!!")
}

func TestReplayStrict(t *testing.T) {
	start := input.NewTouchArgs(0, 1, [2]float64{0.1, 0.2}, 1, input.TouchStart)
	buf := recording(t, start, start)

	_, err := Replay(NewReader(buf), io.Discard, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, contact.ErrAlreadyActive)
	assert.Contains(t, err.Error(), "record 2")
}

func TestReplayCountsReusedIDs(t *testing.T) {
	tr := device.NewTranslator(device.TranslatorOptions{Strip: image.Rect(0, 0, 800, 100)})
	var samples []input.TouchArgs
	for _, x := range []int{100, 400, 700} {
		events, err := tr.Tap(device.TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(x, 50))
		require.NoError(t, err)
		for _, ev := range events {
			args, ok := input.TouchArgsOf(ev)
			require.True(t, ok)
			samples = append(samples, args)
		}
	}
	require.Equal(t, samples[0].ID, samples[2].ID, "taps reuse the same contact id")

	stats, err := Replay(NewReader(recording(t, samples...)), io.Discard, false)
	require.NoError(t, err)
	assert.Equal(t, Stats{Samples: 6, Contacts: 3}, stats)
}

func TestReplayInvalidStartReportedOnce(t *testing.T) {
	start := input.NewTouchArgs(0, 1, [2]float64{2, 0}, 1, input.TouchStart)
	buf := recording(t,
		start,
		start.WithPhase(input.TouchMove),
		start.WithPhase(input.TouchEnd),
	)

	var out bytes.Buffer
	stats, err := Replay(NewReader(buf), &out, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Contacts)
	assert.Equal(t, 3, stats.Problems, "each sample is out of range")
	assert.Equal(t, 0, stats.Active)
	assert.NotContains(t, out.String(), contact.ErrNotActive.Error())
}

func TestReplayReportsBothProblems(t *testing.T) {
	move := input.NewTouchArgs(0, 1, [2]float64{2, 0}, 1, input.TouchMove)

	var out bytes.Buffer
	stats, err := Replay(NewReader(recording(t, move)), &out, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Problems)
	assert.Contains(t, out.String(), input.ErrPositionRange.Error())
	assert.Contains(t, out.String(), contact.ErrNotActive.Error())
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))

	_, err = Replay(NewReader(recording(t, move)), io.Discard, true)
	assert.ErrorIs(t, err, input.ErrPositionRange)
	assert.ErrorIs(t, err, contact.ErrNotActive)
}
