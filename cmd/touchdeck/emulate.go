package main

import (
	"image"
	"log"

	"github.com/spf13/cobra"

	"github.com/phinze/touchdeck/internal/coordinator"
	"github.com/phinze/touchdeck/internal/device"
	"github.com/phinze/touchdeck/internal/device/emulator"
	"github.com/phinze/touchdeck/internal/input"
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Open an emulated touch strip window",
	Long: `Open a window that stands in for the Stream Deck Plus touch strip.

Mouse drags and touch screen fingers are reported as they move, so
multi-touch and cancellation can be exercised without hardware.`,
	Args: cobra.NoArgs,
	RunE: runEmulate,
}

func runEmulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Println("=== touchdeck emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	ctx, cancel := signalContext()
	defer cancel()

	coord := coordinator.New(nil, device.TranslatorOptions{
		DeviceID:   cfg.Touch.DeviceID,
		Strip:      emulatorStrip,
		SwipeSteps: cfg.Touch.SwipeSteps,
		Strict:     cfg.Touch.Strict,
	})
	closeRecording, err := registerModules(coord, cfg)
	if err != nil {
		return err
	}
	coord.Init(ctx)

	emu := emulator.New(emulator.Options{
		DeviceID:  cfg.Touch.DeviceID,
		StripSize: emulatorStrip.Size(),
	}, func(ev input.Event) {
		if cfg.Touch.Strict {
			if args, ok := input.TouchArgsOf(ev); ok {
				if err := args.Validate(); err != nil {
					log.Printf("Dropping %s: %v", args, err)
					return
				}
			}
		}
		// Module errors are already logged by the coordinator.
		_ = coord.Dispatch(ev)
	})
	emu.SetStripSource(func() image.Image { return coord.Composite() })

	go func() {
		<-ctx.Done()
		emu.Close()
	}()

	// Run GUI on main thread (required for macOS)
	guiErr := emu.RunGUI()
	if guiErr != nil {
		log.Printf("Emulator GUI error: %v", guiErr)
	}

	if err := coord.Stop(); err != nil {
		log.Printf("Stopping modules: %v", err)
	}
	if err := closeRecording(); err != nil {
		return err
	}
	return guiErr
}
