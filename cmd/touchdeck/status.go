package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config and device health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== touchdeck status ===")
	fmt.Println()

	allOK := true

	// Config file
	path := resolvedConfigPath()
	fmt.Printf("Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found (using defaults)")
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	}
	fmt.Println()

	if cfg != nil {
		fmt.Println("Touch:")
		fmt.Printf("  Device ID: %d\n", cfg.Touch.DeviceID)
		fmt.Printf("  Strict: %t\n", cfg.Touch.Strict)
		fmt.Printf("  Swipe steps: %d\n", cfg.Touch.SwipeSteps)
		fmt.Printf("  Trail length: %d\n", cfg.Touch.TrailLength)
		if cfg.Record.Path != "" {
			fmt.Printf("  Recording to: %s\n", cfg.Record.Path)
		} else {
			fmt.Println("  Recording: off")
		}
		fmt.Println()
	}

	// Device check (quick USB probe)
	fmt.Println("Stream Deck:")
	serial := ""
	if cfg != nil {
		serial = cfg.Device.Serial
	}
	if dev := tryGetDeviceWithTimeout(serial, 2*time.Second); dev != nil {
		fmt.Printf("  Device: CONNECTED (%s)\n", dev.GetModelName())
		if !dev.GetTouchStripSupported() {
			fmt.Println("  Touch strip: NOT SUPPORTED")
			allOK = false
		}
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
		allOK = false
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'touchdeck setup' to configure, or 'touchdeck emulate' without hardware.")
	}

	return nil
}
