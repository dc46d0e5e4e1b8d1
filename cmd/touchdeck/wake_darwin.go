package main

import (
	"context"
	"log"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// wakeSignals reports system wake. USB devices often come back in a bad
// state after sleep, so the listen loop reconnects on wake.
func wakeSignals(ctx context.Context) <-chan struct{} {
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case activity, ok := <-sleepCh:
				if !ok {
					return
				}
				if activity.Type != notifier.Awake {
					continue
				}
				log.Println("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()
	return wakeCh
}
