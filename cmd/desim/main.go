package main

import (
	"log"

	"github.com/spf13/cobra"

	"desim/internal/app"
	"desim/internal/daemon"
	"desim/internal/registry"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "desim [command]",
	Short: "desim: debug environment simulator",
	Long: `desim keeps a selection of decoy processes running under the names of
well-known analysis tools, virtual machine guest services and security
products, so that software probing for such an environment believes it is
being watched.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
}

// controllerAPI is what the one-shot commands need from app.App.
type controllerAPI interface {
	Status() (app.DaemonStatus, error)
	StopDaemon(force bool) error
	SignalDaemon(cmd daemon.Command) error
	InitAutostart() (bool, error)
	AutostartStore() string
	EnableAutostart() error
	DisableAutostart() error
	Decoys() []registry.Status
	SavedSelection() (registry.Selection, bool, error)
	VerifyStub(path string) error
	Close()
}

var controllerFactory = func() (controllerAPI, error) {
	return app.New(app.Options{ConfigPath: configPath})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
