// Command probe performs a single fetch against a WeatherLink Live device
// and prints both the raw document and the normalized snapshot. Useful for
// checking reachability and field mappings before running the collector.
//
// Usage:
//
//	go run ./cmd/probe -host 192.168.1.50
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/weatherlink-live-collector/internal/adapter/weatherlink"
	"github.com/couchcryptid/weatherlink-live-collector/internal/domain"
)

func main() {
	host := flag.String("host", "", "hostname or IP of the WeatherLink Live device")
	timeout := flag.Duration("timeout", 5*time.Second, "fetch timeout")
	raw := flag.Bool("raw", false, "also print the raw device document")
	flag.Parse()

	if *host == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*host, *timeout, *raw); err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		os.Exit(1)
	}
}

func run(host string, timeout time.Duration, printRaw bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
	defer cancel()

	client := weatherlink.NewClient(host, timeout, logger)
	doc, err := client.Fetch(ctx)
	if err != nil {
		return err
	}

	if printRaw {
		var pretty json.RawMessage = doc
		indented, err := json.MarshalIndent(pretty, "", "  ")
		if err == nil {
			fmt.Printf("--- raw document ---\n%s\n\n", indented)
		}
	}

	snap, err := domain.NewNormalizer().Normalize(doc)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("--- snapshot (%d fields, observed %s) ---\n%s\n",
		len(snap.Fields), snap.ObservedAt.Format(time.RFC3339), out)
	return nil
}
