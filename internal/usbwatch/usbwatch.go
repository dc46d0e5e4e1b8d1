// Package usbwatch reports USB HID device arrivals so the daemon can reopen
// a Stream Deck as soon as it is plugged back in instead of polling.
package usbwatch

import "fmt"

// Arrival is a USB HID device that appeared on the bus.
type Arrival struct {
	VendorID  uint16
	ProductID uint16
}

func (a Arrival) String() string {
	return fmt.Sprintf("%04x:%04x", a.VendorID, a.ProductID)
}

// Matches reports whether a comes from vendorID. A zero productID matches
// every product of that vendor.
func (a Arrival) Matches(vendorID, productID uint16) bool {
	if a.VendorID != vendorID {
		return false
	}
	return productID == 0 || a.ProductID == productID
}

// filter describes what one Watch call is interested in.
type filter struct {
	ch        chan Arrival
	vendorID  uint16
	productID uint16
}

// offer delivers a to f without blocking. Arrivals the consumer has not read
// yet are coalesced: the channel holds at most one pending arrival.
func (f filter) offer(a Arrival) bool {
	if !a.Matches(f.vendorID, f.productID) {
		return false
	}
	select {
	case f.ch <- a:
		return true
	default:
		return false
	}
}
