// Command lazydemo walks through lazy user records and shared addresses.
//
// The backend and guards are configured through LAZYOPS_* environment
// variables; see package config.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"
)

func main() {
	var (
		first   = flag.String("first", "Gabriel", "First name of the user to load")
		last    = flag.String("last", "Galacci", "Last name of the user to load")
		latency = flag.Duration("latency", 2*time.Second, "Simulated directory latency (memory backend)")
		repeat  = flag.Int("repeat", 5, "Cached reads to perform after the first load")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := demoOptions{
		first:   *first,
		last:    *last,
		latency: *latency,
		repeat:  *repeat,
	}
	if err := run(ctx, os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
