package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	runetracker "github.com/jambinjambo/GreatRuneTracker"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("rune-tracker %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to tracker configuration file")
	sim := fs.Bool("sim", false, "Drive the session from a simulated flag table instead of a real game process")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*sim {
		return fmt.Errorf("no game-process reader is built into this CLI; embed the library with WithReader, or pass -sim to run against a simulated flag table")
	}

	flow, err := runetracker.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader := runetracker.NewTableReader()
	go simulate(ctx, reader, flow.Config().Watch.Flags)

	return flow.StreamIN(runetracker.StreamInReader(reader)).Run(ctx)
}

// simulate flips watched flags at random intervals so sinks and metrics can
// be exercised without a game attached.
func simulate(ctx context.Context, reader *runetracker.TableReader, flags []runetracker.WatchConfig) {
	if len(flags) == 0 {
		return
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(200+rng.Intn(800)) * time.Millisecond):
		}

		f := flags[rng.Intn(len(flags))]
		if f.Kind == runetracker.WatchQuantity {
			reader.SetQuantity(f.Flag, int32(rng.Intn(100)))
		} else {
			reader.SetState(f.Flag, rng.Intn(2) == 1)
		}
	}
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := runetracker.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9200/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"runetracker_events_recorded_total": 0,
		"runetracker_events_drained_total":  0,
		"runetracker_buffer_length":         0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] recorded=%f drained=%f buffered=%f\n",
		time.Now().Format(time.RFC3339),
		targets["runetracker_events_recorded_total"],
		targets["runetracker_events_drained_total"],
		targets["runetracker_buffer_length"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`GreatRuneTracker CLI

Usage:
  rune-tracker <command> [flags]

Commands:
  run        Start a tracking session using the provided config
  validate   Load and validate a config file without starting a session
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  rune-tracker run -config ./data/config.yaml -sim
  rune-tracker validate -config ./data/config.yaml
  rune-tracker stats -url http://localhost:9200/metrics -interval 1s
`)
}
