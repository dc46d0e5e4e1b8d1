package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phinze/touchdeck/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write the config file",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== touchdeck setup ===")
	fmt.Println()

	// Load existing config as defaults
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Ignoring existing config: %v\n", err)
		cfg = config.Default()
	}

	fmt.Println("-- Device --")
	cfg.Device.Serial = prompt(reader, "Device serial (empty for first found)", cfg.Device.Serial)
	brightness, err := promptInt(reader, "Brightness (0-100)", int(cfg.Device.Brightness))
	if err != nil {
		return err
	}
	if brightness < 0 || brightness > 100 {
		return fmt.Errorf("brightness must be 0-100, got %d", brightness)
	}
	cfg.Device.Brightness = uint8(brightness)
	fmt.Println()

	fmt.Println("-- Touch --")
	if cfg.Touch.DeviceID, err = promptInt64(reader, "Touch device ID", cfg.Touch.DeviceID); err != nil {
		return err
	}
	if cfg.Touch.SwipeSteps, err = promptInt(reader, "Move samples per swipe", cfg.Touch.SwipeSteps); err != nil {
		return err
	}
	if cfg.Touch.TrailLength, err = promptInt(reader, "Trail length", cfg.Touch.TrailLength); err != nil {
		return err
	}
	strict := prompt(reader, "Reject invalid samples (y/n)", yesNo(cfg.Touch.Strict))
	cfg.Touch.Strict = strings.HasPrefix(strings.ToLower(strict), "y")
	fmt.Println()

	fmt.Println("-- Recording --")
	cfg.Record.Path = prompt(reader, "Recording file (empty to disable)", cfg.Record.Path)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return err
	}

	path := resolvedConfigPath()
	if err := config.WriteFile(path, cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", path)
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

func promptInt(reader *bufio.Reader, label string, defaultVal int) (int, error) {
	s := prompt(reader, label, strconv.Itoa(defaultVal))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return n, nil
}

func promptInt64(reader *bufio.Reader, label string, defaultVal int64) (int64, error) {
	s := prompt(reader, label, strconv.FormatInt(defaultVal, 10))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return n, nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
