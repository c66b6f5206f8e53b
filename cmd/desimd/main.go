package main

import (
	"context"
	"flag"
	"log"
	"os"

	"desim/internal/app"
	"desim/internal/daemon"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	force := flag.Bool("force", false, "Stop an existing resident before starting")
	flag.Parse()

	if daemon.IsRunning() {
		if !*force {
			pid, err := daemon.RunningPID()
			if err != nil {
				log.Fatalf("resident appears running but pid check failed: %v", err)
			}
			log.Printf("desim is already running (pid %d). Use -force to restart.", pid)
			return
		}
		log.Printf("Stopping existing resident...")
		if err := daemon.StopRunning(true); err != nil {
			log.Fatalf("failed to stop running resident: %v", err)
		}
	}

	a, err := app.New(app.Options{ConfigPath: *configPath})
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	handle, err := a.StartDaemon()
	if err != nil {
		log.Fatalf("failed to start resident: %v", err)
	}

	a.Init()
	log.Printf("Resident started (pid %d). Send SIGUSR1/SIGUSR2 to pause/resume, Ctrl+C to stop.", os.Getpid())

	if err := a.Serve(context.Background(), handle); err != nil {
		log.Printf("control loop: %v", err)
	}
	log.Printf("Stopping decoys...")
	a.Close()
	if err := handle.Close(); err != nil {
		log.Fatalf("error releasing pid file: %v", err)
	}
	log.Printf("Resident stopped.")
}
