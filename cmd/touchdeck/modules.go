package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/phinze/touchdeck/internal/config"
	"github.com/phinze/touchdeck/internal/coordinator"
	"github.com/phinze/touchdeck/internal/module"
	"github.com/phinze/touchdeck/internal/modules/record"
	"github.com/phinze/touchdeck/internal/modules/touchlog"
	"github.com/phinze/touchdeck/internal/modules/trail"
	"github.com/phinze/touchdeck/internal/recorder"
)

// registerModules creates the standard module set on coord. The returned
// function closes the recording, if any, and must run after coord.Stop.
func registerModules(coord *coordinator.Coordinator, cfg *config.Config) (func() error, error) {
	if err := coord.RegisterModule(touchlog.New(nil), module.Resources{}); err != nil {
		return nil, err
	}

	strip := coord.StripRect()
	if err := coord.RegisterModule(trail.New(cfg.Touch.TrailLength), module.Resources{StripRect: strip}); err != nil {
		return nil, err
	}

	closeRecording := func() error { return nil }
	if path := cfg.Record.Path; path != "" {
		w, f, err := openRecording(path)
		if err != nil {
			return nil, err
		}
		if err := coord.RegisterModule(record.New(w), module.Resources{}); err != nil {
			f.Close()
			return nil, err
		}
		log.Printf("Recording touch samples to %s", path)
		closeRecording = func() error {
			if err := w.Close(); err != nil {
				f.Close()
				return err
			}
			log.Printf("Recorded %d samples", w.Count())
			return f.Close()
		}
	}
	return closeRecording, nil
}

func openRecording(path string) (*recorder.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating recording dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating recording: %w", err)
	}
	return recorder.NewWriter(f), f, nil
}

// emulatorStrip is the strip geometry used when no hardware is attached.
var emulatorStrip = image.Rect(0, 0, 800, 100)
