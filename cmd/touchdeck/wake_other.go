//go:build !darwin

package main

import "context"

// wakeSignals never fires; sleep notification is only wired up on macOS.
func wakeSignals(ctx context.Context) <-chan struct{} {
	return make(chan struct{})
}
