package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdStatus)
}

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Show whether desim is running and whether it starts with the system",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controllerFactory()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		out := cmd.OutOrStdout()
		st, err := ctrl.Status()
		switch {
		case err != nil:
			fmt.Fprintf(out, "resident: running (pid unknown: %v)\n", err)
		case st.Running:
			fmt.Fprintf(out, "resident: running (pid %d)\n", st.PID)
		default:
			fmt.Fprintln(out, "resident: stopped")
		}

		enabled, err := ctrl.InitAutostart()
		if err != nil {
			fmt.Fprintf(out, "autostart: unknown (%v)\n", err)
			return nil
		}
		fmt.Fprintf(out, "autostart: %s (%s)\n", onOff(enabled), ctrl.AutostartStore())

		sel, found, err := ctrl.SavedSelection()
		if err != nil {
			return err
		}
		if found {
			state := "running"
			if sel.Paused {
				state = "paused"
			}
			fmt.Fprintf(out, "selection: %d decoys, %s\n", len(sel.Active)+len(sel.Pending), state)
		}
		return nil
	},
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
