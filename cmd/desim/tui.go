package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"desim/internal/app"
	"desim/internal/tui"
)

func init() {
	rootCmd.AddCommand(cmdTUI)
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Run the decoys with the interactive terminal menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(app.Options{ConfigPath: configPath})
		if err != nil {
			return err
		}
		handle, err := a.StartDaemon()
		if err != nil {
			return err
		}
		defer handle.Close()
		defer a.Close()

		a.Init()
		if err := tui.Run(a, handle); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	},
}
