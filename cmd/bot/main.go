package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"incidentBot/internal/app/runtime"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := runtime.Start(ctx, runtime.Options{})
	if err != nil {
		log.Fatal(err)
	}

	<-run.Done()

	failure := run.Err()
	if err := run.Stop(); err != nil {
		log.Printf("stop: %v", err)
	}
	if failure != nil {
		log.Fatal(failure)
	}
}
