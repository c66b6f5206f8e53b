package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"desim/internal/daemon"
)

func init() {
	rootCmd.AddCommand(cmdPause, cmdResume)
}

var cmdPause = &cobra.Command{
	Use:   "pause",
	Short: "Ask the running resident to stop its decoys until resumed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalResident(cmd, daemon.CmdPause)
	},
}

var cmdResume = &cobra.Command{
	Use:   "resume",
	Short: "Ask the running resident to restart the decoys it paused",
	RunE: func(cmd *cobra.Command, args []string) error {
		return signalResident(cmd, daemon.CmdResume)
	},
}

func signalResident(cmd *cobra.Command, c daemon.Command) error {
	ctrl, err := controllerFactory()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.SignalDaemon(c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s requested\n", c)
	return nil
}
