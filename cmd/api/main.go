package main

import (
	"context"
	"log"

	"electra/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (modules, push hub, HTTP server).
// 3) Serve until the process is stopped.
func main() {
	log.Println("electra api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("electra api stopped with error: %v", err)
	}
}
