//go:build !darwin

package usbwatch

import (
	"context"
	"log"
)

// Watch returns a channel for USB HID arrivals from vendorID (and productID,
// if non-zero). Hotplug notification is only implemented on macOS; elsewhere
// the channel never fires and callers fall back to polling. The channel is
// closed when ctx is cancelled.
func Watch(ctx context.Context, vendorID, productID uint16) <-chan Arrival {
	ch := make(chan Arrival, 1)
	log.Printf("usbwatch: hotplug not supported on this platform, polling for %04x devices", vendorID)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
