package main

import (
	"context"
	"fmt"
	"log"
	"time"

	runetracker "github.com/jambinjambo/GreatRuneTracker"
)

func main() {
	flow, err := runetracker.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := runetracker.NewTableReader()
	go func() {
		lit := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(1500 * time.Millisecond):
			}
			lit = !lit
			reader.SetState(11010060, lit)
		}
	}()

	sink, batches, closeBatches := runetracker.NewChannelSink("fanout", 32)
	defer closeBatches()

	go fanoutWorker(ctx, "overlay", batches)

	err = flow.
		StreamIN(runetracker.StreamInReader(reader)).
		Run(ctx, runetracker.StreamOutSink(sink))
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func fanoutWorker(ctx context.Context, name string, batches <-chan []runetracker.EventFlag) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-batches:
			fmt.Printf("[%s] forwarding %d flag events at %s\n", name, len(batch), time.Now().Format(time.RFC3339))
			for _, event := range batch {
				fmt.Printf("[%s]   %s\n", name, event.String())
			}
		}
	}
}
