package main

import (
	"flag"
	"log"

	"desim/internal/app"
	"desim/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	a, err := app.New(app.Options{ConfigPath: *configPath})
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	handle, err := a.StartDaemon()
	if err != nil {
		log.Fatalf("failed to start resident: %v", err)
	}

	a.Init()
	runErr := tui.Run(a, handle)
	a.Close()
	_ = handle.Close()
	if runErr != nil {
		log.Fatalf("tui exited with error: %v", runErr)
	}
}
