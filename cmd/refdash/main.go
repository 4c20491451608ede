package main

import (
	"log"

	"github.com/toshilabs/toshiref/internal/refdash/app"
)

// Version is provided at compile time
var Version = ""

func main() {
	if Version != "" {
		app.BuildVersion = Version
	}

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
