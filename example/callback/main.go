package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jambinjambo/GreatRuneTracker/pkg/runetracker"
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
		for souls := int32(0); ; souls += 150 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			reader.SetQuantity(71100, souls)
		}
	}()

	callback := func(batch []runetracker.EventFlag) error {
		for _, event := range batch {
			fmt.Println(event.String())
		}
		return nil
	}

	err = flow.
		StreamIN(runetracker.StreamInReader(reader)).
		Run(ctx, runetracker.StreamOutCallback("stdout", callback))
	if err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
