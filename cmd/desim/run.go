package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"desim/internal/app"
	"desim/internal/daemon"
)

var runForceRestart bool

func init() {
	rootCmd.AddCommand(cmdRun)
	cmdRun.Flags().BoolVarP(&runForceRestart, "force", "f", false, "Restart the resident if it is already running")
}

var cmdRun = &cobra.Command{
	Use:   "run",
	Short: "Start the decoys and keep them running in the foreground",
	Long: `Starts the saved selection of decoys (or the configured defaults on first
launch) and keeps them running until interrupted. Use 'desim pause' and
'desim resume' from another terminal to suspend them temporarily.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if daemon.IsRunning() {
			if !runForceRestart {
				pid, _ := daemon.RunningPID()
				fmt.Fprintf(out, "desim is already running (pid %d). Stop it first or re-run with --force.\n", pid)
				return nil
			}
			fmt.Fprintln(out, "Stopping existing resident...")
			if err := daemon.StopRunning(true); err != nil {
				return err
			}
		}

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
		active := 0
		for _, st := range a.Decoys() {
			if st.Active {
				active++
			}
		}
		fmt.Fprintf(out, "Started %d decoys.\n", active)

		runSpin := spinner.New(spinner.CharSets[21], 120*time.Millisecond, spinner.WithWriter(out))
		runSpin.Suffix = " Running..."
		runSpin.Start()
		defer runSpin.Stop()

		return a.Serve(cmd.Context(), handle)
	},
}
