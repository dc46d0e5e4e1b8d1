package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/touchdeck/internal/config"
	"github.com/phinze/touchdeck/internal/coordinator"
	"github.com/phinze/touchdeck/internal/device"
	"github.com/phinze/touchdeck/internal/usbwatch"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Read touch events from a connected Stream Deck Plus",
	Args:  cobra.NoArgs,
	RunE:  runListen,
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Println("=== touchdeck ===")
	log.Println("Press Ctrl+C to exit")

	ctx, cancel := signalContext()
	defer cancel()

	wakeCh := wakeSignals(ctx)
	arrivals := usbwatch.Watch(ctx, device.ElgatoVendorID, 0)

	// Main device loop - wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, cfg.Device.Serial, wakeCh, arrivals)
		if dev == nil {
			// Context cancelled
			return nil
		}

		// Check context before starting - avoid race where device connects after shutdown requested
		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// Drain stale wake signals so one from before enumeration does not
		// immediately tear down the new connection.
	drainWake:
		for {
			select {
			case <-wakeCh:
				log.Println("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// USB enumeration may not be complete even after GetDevice succeeds.
		time.Sleep(500 * time.Millisecond)

		if err := runWithDevice(ctx, cfg, dev, wakeCh); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
}

// tryGetDeviceWithTimeout attempts to get and open a Stream Deck device with a timeout.
// Returns the device if successful, nil otherwise. The timeout prevents blocking indefinitely
// when the USB subsystem is in a bad state.
func tryGetDeviceWithTimeout(serial string, timeout time.Duration) *streamdeck.Device {
	type result struct {
		dev *streamdeck.Device
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := streamdeck.GetDevice(serial)
		if err != nil {
			ch <- result{nil, err}
			return
		}
		if err := dev.Open(); err != nil {
			ch <- result{nil, err}
			return
		}
		ch <- result{dev, nil}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		log.Println("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice waits until a Stream Deck can be opened. USB arrivals
// and wake signals trigger an immediate probe; a slow poll covers platforms
// without hotplug notification.
func waitForHardwareDevice(ctx context.Context, serial string, wakeCh <-chan struct{}, arrivals <-chan usbwatch.Arrival) device.Device {
	const deviceTimeout = 5 * time.Second

	// First, try to get an already-connected device
	if dev := tryGetDeviceWithTimeout(serial, deviceTimeout); dev != nil {
		return device.NewHardware(dev)
	}

	log.Println("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case a, ok := <-arrivals:
			if !ok {
				arrivals = nil
				continue
			}
			log.Printf("Stream Deck arrived (%s), probing...", a)
			if dev := probe(ctx, serial, deviceTimeout); dev != nil {
				return dev
			}
		case <-wakeCh:
			// After wake, USB devices may take several seconds to enumerate.
			log.Println("Wake signal received, probing for device...")
			if dev := probe(ctx, serial, deviceTimeout); dev != nil {
				return dev
			}
			log.Println("Device not found after wake, resuming polling...")
		case <-time.After(2 * time.Second):
			if dev := tryGetDeviceWithTimeout(serial, deviceTimeout); dev != nil {
				log.Println("Device connected!")
				return device.NewHardware(dev)
			}
		}
	}
}

// probe retries opening the device for a few seconds.
func probe(ctx context.Context, serial string, timeout time.Duration) device.Device {
	for i := 0; i < 10; i++ {
		if dev := tryGetDeviceWithTimeout(serial, timeout); dev != nil {
			log.Println("Device connected!")
			return device.NewHardware(dev)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil
}

// runWithDevice runs the coordinator with the given device until disconnect, wake, or context cancel.
// Only setup failures are returned; a disconnect is logged and the caller waits for the device again.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device, wakeCh <-chan struct{}) error {
	log.Printf("Connected to: %s", dev.GetModelName())
	if !dev.GetTouchStripSupported() {
		log.Printf("%s has no touch strip; only keys and dials will report", dev.GetModelName())
	}

	if err := dev.SetBrightness(cfg.Device.Brightness); err != nil {
		log.Printf("Setting brightness: %v", err)
	}
	if err := dev.ForEachKey(dev.ClearKey); err != nil {
		log.Printf("Clearing keys: %v", err)
	}

	// Create coordinator and modules fresh for each connection
	coord := coordinator.New(dev, device.TranslatorOptions{
		DeviceID:   cfg.Touch.DeviceID,
		SwipeSteps: cfg.Touch.SwipeSteps,
		Strict:     cfg.Touch.Strict,
	})
	closeRecording, err := registerModules(coord, cfg)
	if err != nil {
		dev.Close()
		return err
	}

	// Run coordinator with a child context so we can stop it independently
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(runCtx)
	}()

	log.Println("Ready! Touch the strip")

	// Wait for parent context cancel, device error, or system wake
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Device disconnected: %v", err)
		}
	case <-wakeCh:
		log.Println("Reconnecting device after wake...")
	}

	// Stop coordinator with timeout
	runCancel()

	done := make(chan struct{})
	go func() {
		if err := coord.Stop(); err != nil {
			log.Printf("Stopping modules: %v", err)
		}
		if err := closeRecording(); err != nil {
			log.Printf("Closing recording: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Println("Cleanup timed out")
	}

	// The usbhid library doesn't cancel ongoing I/O on close, so callbacks
	// can fire after close with stale context pointers.
	time.Sleep(200 * time.Millisecond)

	// Wait for close so a reopen after wake does not race it.
	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// If parent context is cancelled (shutdown signal), force exit
	// since device.Close() may block indefinitely
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
	return nil
}
