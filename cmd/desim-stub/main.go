// Command desim-stub is the image copied under every decoy process name when
// the embedded shell stub cannot be used. It does nothing but wait to be
// terminated.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gen2brain/beeep"
)

const manualRunMessage = "Don't run this application manually."

func main() {
	if len(os.Args) < 2 {
		if err := beeep.Alert("Error", manualRunMessage, ""); err != nil {
			log.Print(manualRunMessage)
		}
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc
}
