package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"rafaelmartins.com/p/streamdeck"
)

func TestTouchTypeFromStreamdeck(t *testing.T) {
	assert.Equal(t, TOUCH_STRIP_TOUCH_TYPE_LONG, touchTypeFromStreamdeck(streamdeck.TOUCH_STRIP_TOUCH_TYPE_LONG))
	assert.Equal(t, TOUCH_STRIP_TOUCH_TYPE_SHORT, touchTypeFromStreamdeck(streamdeck.TOUCH_STRIP_TOUCH_TYPE_SHORT))
}
