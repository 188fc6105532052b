package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	runetracker "github.com/jambinjambo/GreatRuneTracker"
)

func main() {
	flow, err := runetracker.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// In a real tracker this reader would be backed by the game process;
	// here a table stands in so the session produces records on its own.
	reader := runetracker.NewTableReader()
	go func() {
		defeated := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
			defeated = !defeated
			reader.SetState(13000800, defeated)
		}
	}()

	if err := flow.StreamIN(runetracker.StreamInReader(reader)).Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("tracker session exited: %v", err)
	}
}
