package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdAutostart)
	cmdAutostart.AddCommand(cmdAutostartEnable, cmdAutostartDisable, cmdAutostartStatus)
}

var cmdAutostart = &cobra.Command{
	Use:   "autostart",
	Short: "Control whether desim starts with the system",
}

var cmdAutostartEnable = &cobra.Command{
	Use:   "enable",
	Short: "Register this executable to start at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAutostart(cmd, func(ctrl controllerAPI) error {
			if err := ctrl.EnableAutostart(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "autostart enabled (%s)\n", ctrl.AutostartStore())
			return nil
		})
	},
}

var cmdAutostartDisable = &cobra.Command{
	Use:   "disable",
	Short: "Remove the login registration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAutostart(cmd, func(ctrl controllerAPI) error {
			if err := ctrl.DisableAutostart(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
			return nil
		})
	},
}

var cmdAutostartStatus = &cobra.Command{
	Use:   "status",
	Short: "Show whether the login registration points at this executable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controllerFactory()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		enabled, err := ctrl.InitAutostart()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), onOff(enabled))
		return nil
	},
}

func withAutostart(cmd *cobra.Command, fn func(controllerAPI) error) error {
	ctrl, err := controllerFactory()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if _, err := ctrl.InitAutostart(); err != nil {
		return err
	}
	return fn(ctrl)
}
