package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phinze/touchdeck/internal/recorder"
)

var replayStrict bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print a touch recording and check contact lifecycles",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "fail on the first invalid sample or lifecycle violation")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	stats, err := recorder.Replay(recorder.NewReader(f), cmd.OutOrStdout(), replayStrict)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d samples, %d contacts, %d problems, %d still active\n",
		stats.Samples, stats.Contacts, stats.Problems, stats.Active)
	return nil
}
